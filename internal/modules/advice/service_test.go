package advice

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niveshak/niveshak/internal/domain"
)

type stubGenerator struct {
	advice *Advice
	err    error
	last   Request
}

func (s *stubGenerator) Name() string { return "stub" }

func (s *stubGenerator) Generate(_ context.Context, req Request) (*Advice, error) {
	s.last = req
	if s.err != nil {
		return nil, s.err
	}
	return s.advice, nil
}

func newTestService(t *testing.T, gen Generator) *Service {
	return NewService(gen, newTestHistory(t), zerolog.Nop())
}

func TestAdvise_RecordsHistory(t *testing.T) {
	gen := &stubGenerator{advice: &Advice{
		Assessment:       "Looks fine.",
		Recommendations:  []string{"Hold."},
		LongTermStrategy: "Stay the course.",
		RiskWarning:      "Markets can fall.",
	}}
	svc := newTestService(t, gen)

	got, err := svc.Advise(context.Background(), "p1", Request{
		Holdings:    []domain.Holding{{Name: "Infosys", Category: domain.CategoryLargeCap, Amount: 1000}},
		RiskProfile: domain.RiskHigh,
		Market:      domain.MarketIndia,
	})
	require.NoError(t, err)
	assert.Equal(t, gen.advice, got)

	records, err := svc.History("p1", 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "stub", records[0].Source)
	assert.Equal(t, *gen.advice, records[0].Advice)
}

func TestAdvise_GeneratorFailureDegrades(t *testing.T) {
	gen := &stubGenerator{err: errors.New("model offline")}
	svc := newTestService(t, gen)

	got, err := svc.Advise(context.Background(), "p1", Request{})
	require.NoError(t, err)

	assert.Equal(t, "Unable to provide AI assessment at this time.", got.Assessment)
	assert.Equal(t, "Error: model offline", got.RiskWarning)
	assert.Empty(t, got.Recommendations)

	records, err := svc.History("p1", 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "unavailable", records[0].Source)
}

func TestAdvise_NoPortfolioSkipsHistory(t *testing.T) {
	gen := &stubGenerator{advice: &Advice{Assessment: "ad hoc"}}
	svc := newTestService(t, gen)

	got, err := svc.Advise(context.Background(), "", Request{})
	require.NoError(t, err)
	assert.Equal(t, "ad hoc", got.Assessment)

	records, err := svc.History("", 0)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestAdvise_DefaultsProfileAndMarket(t *testing.T) {
	gen := &stubGenerator{advice: &Advice{}}
	svc := newTestService(t, gen)

	_, err := svc.Advise(context.Background(), "", Request{})
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultRiskProfile, gen.last.RiskProfile)
	assert.Equal(t, domain.MarketIndia, gen.last.Market)
}
