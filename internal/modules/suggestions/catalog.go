package suggestions

import "github.com/niveshak/niveshak/internal/domain"

// Instrument is one curated catalog entry. RiskRating is a display label,
// not a portfolio risk profile. Funds and ETFs carry no sector.
type Instrument struct {
	Ticker      string `json:"ticker"`
	Name        string `json:"name"`
	Description string `json:"description"`
	RiskRating  string `json:"risk_rating"`
	Sector      string `json:"sector,omitempty"`
}

var usCatalog = map[domain.Category][]Instrument{
	domain.CategoryLargeCap: {
		{
			Ticker:      "AAPL",
			Name:        "Apple Inc.",
			Description: "Technology company that designs, manufactures, and markets smartphones, personal computers, tablets, wearables, and accessories.",
			RiskRating:  "Low",
			Sector:      "Information Technology",
		},
		{
			Ticker:      "MSFT",
			Name:        "Microsoft Corporation",
			Description: "Technology company that develops, licenses, and supports software, services, devices, and solutions.",
			RiskRating:  "Low",
			Sector:      "Information Technology",
		},
		{
			Ticker:      "AMZN",
			Name:        "Amazon.com, Inc.",
			Description: "E-commerce, cloud computing, digital streaming, and artificial intelligence company.",
			RiskRating:  "Medium",
			Sector:      "Consumer Discretionary",
		},
		{
			Ticker:      "JNJ",
			Name:        "Johnson & Johnson",
			Description: "Medical devices, pharmaceutical, and consumer packaged goods manufacturer.",
			RiskRating:  "Low",
			Sector:      "Health Care",
		},
		{
			Ticker:      "PG",
			Name:        "Procter & Gamble",
			Description: "Consumer goods corporation that specializes in a wide range of personal health, consumer health, and personal care products.",
			RiskRating:  "Low",
			Sector:      "Consumer Staples",
		},
	},
	domain.CategoryMidCap: {
		{
			Ticker:      "ETSY",
			Name:        "Etsy, Inc.",
			Description: "E-commerce website focused on handmade or vintage items and craft supplies.",
			RiskRating:  "Medium",
			Sector:      "Consumer Discretionary",
		},
		{
			Ticker:      "ROKU",
			Name:        "Roku, Inc.",
			Description: "Manufacturer of digital media players for streaming entertainment content.",
			RiskRating:  "Medium-High",
			Sector:      "Communication Services",
		},
		{
			Ticker:      "SNAP",
			Name:        "Snap Inc.",
			Description: "Camera and social media company that develops Snapchat and Spectacles.",
			RiskRating:  "High",
			Sector:      "Communication Services",
		},
		{
			Ticker:      "DKNG",
			Name:        "DraftKings Inc.",
			Description: "Digital sports entertainment and gaming company.",
			RiskRating:  "High",
			Sector:      "Consumer Discretionary",
		},
		{
			Ticker:      "ZEN",
			Name:        "Zendesk, Inc.",
			Description: "Customer service software company that builds software to improve customer relationships.",
			RiskRating:  "Medium",
			Sector:      "Information Technology",
		},
	},
	domain.CategorySmallCap: {
		{
			Ticker:      "SFIX",
			Name:        "Stitch Fix, Inc.",
			Description: "Online personal styling service in the United States and United Kingdom.",
			RiskRating:  "High",
			Sector:      "Consumer Discretionary",
		},
		{
			Ticker:      "MGNI",
			Name:        "Magnite, Inc.",
			Description: "Independent sell-side advertising platform that combines Rubicon Project and Telaria.",
			RiskRating:  "High",
			Sector:      "Communication Services",
		},
		{
			Ticker:      "VUZI",
			Name:        "Vuzix Corporation",
			Description: "Supplier of Smart-Glasses and Augmented Reality (AR) technologies and products.",
			RiskRating:  "Very High",
			Sector:      "Information Technology",
		},
		{
			Ticker:      "PUBM",
			Name:        "PubMatic, Inc.",
			Description: "Provides a cloud infrastructure platform that enables real-time programmatic advertising transactions.",
			RiskRating:  "High",
			Sector:      "Communication Services",
		},
		{
			Ticker:      "HEAR",
			Name:        "Turtle Beach Corporation",
			Description: "Audio technology company that designs and markets audio peripherals for video game consoles, personal computers, and mobile devices.",
			RiskRating:  "High",
			Sector:      "Information Technology",
		},
	},
	domain.CategoryGold: {
		{
			Ticker:      "GLD",
			Name:        "SPDR Gold Shares",
			Description: "Exchange-traded fund that tracks the price of gold.",
			RiskRating:  "Medium",
		},
		{
			Ticker:      "IAU",
			Name:        "iShares Gold Trust",
			Description: "Exchange-traded fund designed to reflect the price of gold bullion.",
			RiskRating:  "Medium",
		},
		{
			Ticker:      "NEM",
			Name:        "Newmont Corporation",
			Description: "World's largest gold mining corporation.",
			RiskRating:  "Medium-High",
			Sector:      "Materials",
		},
		{
			Ticker:      "GOLD",
			Name:        "Barrick Gold Corporation",
			Description: "Mining company that produces gold and copper.",
			RiskRating:  "Medium-High",
			Sector:      "Materials",
		},
		{
			Ticker:      "FNV",
			Name:        "Franco-Nevada Corporation",
			Description: "Gold-focused royalty and streaming company with a diversified portfolio of cash-flow producing assets.",
			RiskRating:  "Medium",
			Sector:      "Materials",
		},
	},
	domain.CategoryETFsCrypto: {
		{
			Ticker:      "VOO",
			Name:        "Vanguard S&P 500 ETF",
			Description: "Exchange-traded fund that tracks the S&P 500 index.",
			RiskRating:  "Medium",
		},
		{
			Ticker:      "VTI",
			Name:        "Vanguard Total Stock Market ETF",
			Description: "Exchange-traded fund that tracks the performance of the CRSP US Total Market Index.",
			RiskRating:  "Medium",
		},
		{
			Ticker:      "QQQ",
			Name:        "Invesco QQQ Trust",
			Description: "Exchange-traded fund tracking the Nasdaq-100 Index, which includes 100 of the largest non-financial companies listed on the Nasdaq.",
			RiskRating:  "Medium-High",
		},
		{
			Ticker:      "GBTC",
			Name:        "Grayscale Bitcoin Trust",
			Description: "Investment vehicle that enables investors to gain exposure to Bitcoin in the form of a security.",
			RiskRating:  "Very High",
		},
		{
			Ticker:      "ETHE",
			Name:        "Grayscale Ethereum Trust",
			Description: "Investment vehicle that enables investors to gain exposure to Ethereum in the form of a security.",
			RiskRating:  "Very High",
		},
	},
	domain.CategoryOther: {
		{
			Ticker:      "SPY",
			Name:        "SPDR S&P 500 ETF Trust",
			Description: "Exchange-traded fund tracking the S&P 500 stock market index.",
			RiskRating:  "Medium",
		},
		{
			Ticker:      "ARKK",
			Name:        "ARK Innovation ETF",
			Description: "Actively-managed exchange-traded fund that seeks long-term growth of capital.",
			RiskRating:  "High",
		},
		{
			Ticker:      "VNQ",
			Name:        "Vanguard Real Estate Index Fund",
			Description: "Exchange-traded fund that measures the performance of public traded REITs and other real estate related investments.",
			RiskRating:  "Medium-High",
		},
		{
			Ticker:      "BND",
			Name:        "Vanguard Total Bond Market ETF",
			Description: "Exchange-traded fund that provides broad exposure to U.S. investment grade bonds.",
			RiskRating:  "Low",
		},
		{
			Ticker:      "VXUS",
			Name:        "Vanguard Total International Stock ETF",
			Description: "Exchange-traded fund that tracks the performance of stocks issued by companies located in developed and emerging markets, excluding the United States.",
			RiskRating:  "Medium-High",
		},
	},
}

// indiaCatalog tickers carry the NSE suffix so quote lookups need no market
// resolution.
var indiaCatalog = map[domain.Category][]Instrument{
	domain.CategoryLargeCap: {
		{
			Ticker:      "RELIANCE.NS",
			Name:        "Reliance Industries Limited",
			Description: "Conglomerate with businesses across energy, petrochemicals, retail, and digital services.",
			RiskRating:  "Low",
			Sector:      "Energy",
		},
		{
			Ticker:      "TCS.NS",
			Name:        "Tata Consultancy Services",
			Description: "Global IT services, consulting, and business solutions company.",
			RiskRating:  "Low",
			Sector:      "Information Technology",
		},
		{
			Ticker:      "HDFCBANK.NS",
			Name:        "HDFC Bank Limited",
			Description: "India's largest private sector bank by assets.",
			RiskRating:  "Low",
			Sector:      "Financials",
		},
		{
			Ticker:      "INFY.NS",
			Name:        "Infosys Limited",
			Description: "Global consulting and IT services company.",
			RiskRating:  "Low",
			Sector:      "Information Technology",
		},
		{
			Ticker:      "HINDUNILVR.NS",
			Name:        "Hindustan Unilever Limited",
			Description: "Consumer goods company with brands across home care, personal care, and foods.",
			RiskRating:  "Low",
			Sector:      "Consumer Staples",
		},
	},
	domain.CategoryMidCap: {
		{
			Ticker:      "PERSISTENT.NS",
			Name:        "Persistent Systems Limited",
			Description: "Software products and technology services company focused on digital engineering.",
			RiskRating:  "Medium",
			Sector:      "Information Technology",
		},
		{
			Ticker:      "CUMMINSIND.NS",
			Name:        "Cummins India Limited",
			Description: "Manufacturer of diesel and natural gas engines and power generation systems.",
			RiskRating:  "Medium",
			Sector:      "Industrials",
		},
		{
			Ticker:      "AUROPHARMA.NS",
			Name:        "Aurobindo Pharma Limited",
			Description: "Pharmaceutical manufacturer producing generic formulations and active ingredients.",
			RiskRating:  "Medium",
			Sector:      "Health Care",
		},
		{
			Ticker:      "FEDERALBNK.NS",
			Name:        "The Federal Bank Limited",
			Description: "Private sector bank with a strong presence in South India.",
			RiskRating:  "Medium",
			Sector:      "Financials",
		},
		{
			Ticker:      "MPHASIS.NS",
			Name:        "Mphasis Limited",
			Description: "IT services company specializing in cloud and cognitive services.",
			RiskRating:  "Medium",
			Sector:      "Information Technology",
		},
	},
	domain.CategorySmallCap: {
		{
			Ticker:      "CAMS.NS",
			Name:        "Computer Age Management Services",
			Description: "Registrar and transfer agency serving Indian mutual funds.",
			RiskRating:  "Medium-High",
			Sector:      "Financials",
		},
		{
			Ticker:      "RADICO.NS",
			Name:        "Radico Khaitan Limited",
			Description: "One of India's largest manufacturers of branded spirits.",
			RiskRating:  "High",
			Sector:      "Consumer Staples",
		},
		{
			Ticker:      "KEI.NS",
			Name:        "KEI Industries Limited",
			Description: "Manufacturer of wires, cables, and turnkey electrical projects.",
			RiskRating:  "High",
			Sector:      "Industrials",
		},
		{
			Ticker:      "APLAPOLLO.NS",
			Name:        "APL Apollo Tubes Limited",
			Description: "India's largest producer of structural steel tubes.",
			RiskRating:  "High",
			Sector:      "Materials",
		},
		{
			Ticker:      "CDSL.NS",
			Name:        "Central Depository Services Limited",
			Description: "Securities depository holding and servicing dematerialized securities.",
			RiskRating:  "Medium-High",
			Sector:      "Financials",
		},
	},
	domain.CategoryGold: {
		{
			Ticker:      "GOLDBEES.NS",
			Name:        "Nippon India ETF Gold BeES",
			Description: "Exchange-traded fund that tracks the domestic price of physical gold.",
			RiskRating:  "Medium",
		},
		{
			Ticker:      "KOTAKGOLD.NS",
			Name:        "Kotak Gold ETF",
			Description: "Exchange-traded fund investing in physical gold of 99.5% purity.",
			RiskRating:  "Medium",
		},
		{
			Ticker:      "HDFCGOLD.NS",
			Name:        "HDFC Gold ETF",
			Description: "Exchange-traded fund seeking returns in line with the domestic price of gold.",
			RiskRating:  "Medium",
		},
		{
			Ticker:      "SETFGOLD.NS",
			Name:        "SBI Gold ETF",
			Description: "Exchange-traded fund tracking the price of gold bullion.",
			RiskRating:  "Medium",
		},
		{
			Ticker:      "GOLDIETF.NS",
			Name:        "ICICI Prudential Gold ETF",
			Description: "Exchange-traded fund backed by physical gold.",
			RiskRating:  "Medium",
		},
	},
	domain.CategoryETFsCrypto: {
		{
			Ticker:      "NIFTYBEES.NS",
			Name:        "Nippon India ETF Nifty 50 BeES",
			Description: "Exchange-traded fund tracking the Nifty 50 index.",
			RiskRating:  "Medium",
		},
		{
			Ticker:      "JUNIORBEES.NS",
			Name:        "Nippon India ETF Nifty Next 50 Junior BeES",
			Description: "Exchange-traded fund tracking the Nifty Next 50 index.",
			RiskRating:  "Medium-High",
		},
		{
			Ticker:      "BANKBEES.NS",
			Name:        "Nippon India ETF Nifty Bank BeES",
			Description: "Exchange-traded fund tracking the Nifty Bank index.",
			RiskRating:  "Medium-High",
		},
		{
			Ticker:      "ITBEES.NS",
			Name:        "Nippon India ETF Nifty IT",
			Description: "Exchange-traded fund tracking the Nifty IT index.",
			RiskRating:  "Medium-High",
		},
		{
			Ticker:      "MON100.NS",
			Name:        "Motilal Oswal NASDAQ 100 ETF",
			Description: "Exchange-traded fund giving Indian investors exposure to the NASDAQ-100.",
			RiskRating:  "Medium-High",
		},
	},
	domain.CategoryOther: {
		{
			Ticker:      "LIQUIDBEES.NS",
			Name:        "Nippon India ETF Liquid BeES",
			Description: "Liquid exchange-traded fund investing in overnight instruments.",
			RiskRating:  "Low",
		},
		{
			Ticker:      "SILVERBEES.NS",
			Name:        "Nippon India Silver ETF",
			Description: "Exchange-traded fund tracking the domestic price of silver.",
			RiskRating:  "Medium-High",
		},
		{
			Ticker:      "LTGILTBEES.NS",
			Name:        "Nippon India ETF Long Term Gilt",
			Description: "Exchange-traded fund investing in long-dated government securities.",
			RiskRating:  "Low",
		},
		{
			Ticker:      "HNGSNGBEES.NS",
			Name:        "Nippon India ETF Hang Seng BeES",
			Description: "Exchange-traded fund tracking the Hang Seng index.",
			RiskRating:  "High",
		},
		{
			Ticker:      "MAFANG.NS",
			Name:        "Mirae Asset NYSE FANG+ ETF",
			Description: "Exchange-traded fund tracking the NYSE FANG+ index of global technology leaders.",
			RiskRating:  "High",
		},
	},
}

// Catalog returns the curated instruments for a market and category. The
// returned slice is a copy the caller may mutate. Categories without curated
// entries, such as fixed income, return an empty slice.
func Catalog(market domain.Market, category domain.Category) []Instrument {
	src := indiaCatalog
	if market == domain.MarketUS {
		src = usCatalog
	}

	out := make([]Instrument, len(src[category]))
	copy(out, src[category])
	return out
}
