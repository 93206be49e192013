package suggestions

import "github.com/niveshak/niveshak/internal/domain"

// Lookup resolves tickers to sectors from the instrument catalogs. Funds and
// ETFs carry no sector and resolve as unknown, as does any ticker outside
// the catalogs.
type Lookup struct {
	index map[string]string
}

func NewLookup() *Lookup {
	index := make(map[string]string)
	for _, catalog := range []map[domain.Category][]Instrument{usCatalog, indiaCatalog} {
		for _, instruments := range catalog {
			for _, inst := range instruments {
				if inst.Sector != "" {
					index[inst.Ticker] = inst.Sector
				}
			}
		}
	}
	return &Lookup{index: index}
}

// Sector reports the sector for a catalog ticker.
func (l *Lookup) Sector(ticker string) (string, bool) {
	sector, ok := l.index[ticker]
	return sector, ok
}
