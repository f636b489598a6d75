package bigo

import (
	"testing"

	"github.com/zertyz/big-O/internal/bigo/assertion"
	"github.com/zertyz/big-O/internal/bigo/classifier"
	"github.com/zertyz/big-O/internal/bigo/crud"
)

// CRUDBuilder configures the four-way Create/Read/Update/Delete analysis.
type CRUDBuilder struct {
	tb   testing.TB
	sink assertion.Sink
	cfg  crud.Config
}

// AnalyzeCRUDAlgorithm returns a builder for a resident data structure
// exercised through all four CRUD phases at a shared n.
func AnalyzeCRUDAlgorithm(tb testing.TB, algorithm string) *CRUDBuilder {
	return &CRUDBuilder{
		tb:   tb,
		sink: assertion.SinkFromEnv(),
		cfg: crud.Config{
			Algorithm: algorithm,
			Tolerance: defaultToleranceFromEnv(),
		},
	}
}

func (b *CRUDBuilder) FirstPass(n int) *CRUDBuilder {
	b.cfg.N1 = n
	return b
}

func (b *CRUDBuilder) SecondPass(n int) *CRUDBuilder {
	b.cfg.N2 = n
	return b
}

// Repetitions sets r, the shared repetition count for the Read and
// Update phases; r must be identical across both passes.
func (b *CRUDBuilder) Repetitions(r int) *CRUDBuilder {
	b.cfg.R = r
	return b
}

func (b *CRUDBuilder) MaxReattemptsPerPass(k int) *CRUDBuilder {
	b.cfg.MaxReattemptsPerPass = k
	return b
}

func (b *CRUDBuilder) Create(fn func(n int) (any, error), max classifier.Class) *CRUDBuilder {
	b.cfg.Create = wrapCRUDFunc(fn)
	b.cfg.CreateMax = max
	return b
}

func (b *CRUDBuilder) Read(fn func(n int) (any, error), max classifier.Class) *CRUDBuilder {
	b.cfg.Read = wrapCRUDFunc(fn)
	b.cfg.ReadMax = max
	return b
}

func (b *CRUDBuilder) Update(fn func(n int) (any, error), max classifier.Class) *CRUDBuilder {
	b.cfg.Update = wrapCRUDFunc(fn)
	b.cfg.UpdateMax = max
	return b
}

func (b *CRUDBuilder) Delete(fn func(n int) (any, error), max classifier.Class) *CRUDBuilder {
	b.cfg.Delete = wrapCRUDFunc(fn)
	b.cfg.DeleteMax = max
	return b
}

func (b *CRUDBuilder) Tolerance(percent int) *CRUDBuilder {
	b.cfg.Tolerance = classifier.Tolerance(percent)
	return b
}

func (b *CRUDBuilder) Run() *crud.RunReport {
	report, err := crud.Run(&b.cfg)
	assertion.CheckCRUD(b.tb, b.sink, report, err)
	return report
}

func wrapCRUDFunc(fn func(n int) (any, error)) func(n int) (any, int, error) {
	return func(n int) (any, int, error) {
		data, err := fn(n)
		return data, 0, err
	}
}
