package classify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"zelapb/api/internal/store"
)

type fakeClassifier struct {
	classifyFn func(ctx context.Context, description string) (Analysis, error)
}

func (f fakeClassifier) Classify(ctx context.Context, description string) (Analysis, error) {
	return f.classifyFn(ctx, description)
}

type fakeGenerator struct {
	generateFn func(ctx context.Context, current store.SystemConfig, command string) (store.SystemConfig, error)
}

func (f fakeGenerator) GenerateConfig(ctx context.Context, current store.SystemConfig, command string) (store.SystemConfig, error) {
	return f.generateFn(ctx, current, command)
}

func TestGuardedClassifySuccess(t *testing.T) {
	want := Analysis{Category: "Infraestrutura", Priority: store.PriorityHigh, Summary: "Buraco"}
	g := WithFallback(fakeClassifier{classifyFn: func(context.Context, string) (Analysis, error) {
		return want, nil
	}}, nil, time.Second, nil)

	got, fellBack := g.Classify(context.Background(), "buraco")
	assert.False(t, fellBack)
	assert.Equal(t, want, got)
}

func TestGuardedClassifyErrorFallsBack(t *testing.T) {
	g := WithFallback(fakeClassifier{classifyFn: func(context.Context, string) (Analysis, error) {
		return Analysis{}, errors.New("network down")
	}}, nil, time.Second, nil)

	got, fellBack := g.Classify(context.Background(), "x")
	assert.True(t, fellBack)
	assert.Equal(t, Fallback, got)
}

func TestGuardedClassifyParseErrorFallsBack(t *testing.T) {
	g := WithFallback(fakeClassifier{classifyFn: func(context.Context, string) (Analysis, error) {
		return ParseAnalysis(`{"category":"Geral","priority":"Extreme","summary":"x"}`)
	}}, nil, time.Second, nil)

	got, fellBack := g.Classify(context.Background(), "x")
	assert.True(t, fellBack)
	assert.Equal(t, Fallback, got)
}

func TestGuardedClassifyTimeoutFallsBack(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	g := WithFallback(fakeClassifier{classifyFn: func(context.Context, string) (Analysis, error) {
		<-release
		return Analysis{Category: "late"}, nil
	}}, nil, 20*time.Millisecond, nil)

	start := time.Now()
	got, fellBack := g.Classify(context.Background(), "x")
	assert.True(t, fellBack)
	assert.Equal(t, Fallback, got)
	assert.Less(t, time.Since(start), time.Second)
}

func TestGuardedClassifyNilClassifier(t *testing.T) {
	got, fellBack := WithFallback(nil, nil, 0, nil).Classify(context.Background(), "x")
	assert.True(t, fellBack)
	assert.Equal(t, Fallback, got)
}

func TestGuardedGenerateConfigErrorKeepsCurrent(t *testing.T) {
	current := store.SystemConfig{AppName: "ZelaPB", Version: "1.0.0"}
	g := WithFallback(nil, fakeGenerator{generateFn: func(context.Context, store.SystemConfig, string) (store.SystemConfig, error) {
		return store.SystemConfig{}, errors.New("quota")
	}}, time.Second, nil)

	got, fellBack := g.GenerateConfig(context.Background(), current, "ativar manutenção")
	assert.True(t, fellBack)
	assert.Equal(t, current, got)
}

func TestGuardedGenerateConfigTimeoutKeepsCurrent(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	current := store.SystemConfig{AppName: "ZelaPB", Version: "1.0.0"}
	g := WithFallback(nil, fakeGenerator{generateFn: func(context.Context, store.SystemConfig, string) (store.SystemConfig, error) {
		<-release
		return store.SystemConfig{AppName: "late"}, nil
	}}, 20*time.Millisecond, nil)

	start := time.Now()
	got, fellBack := g.GenerateConfig(context.Background(), current, "mudar nome")
	assert.True(t, fellBack)
	assert.Equal(t, current, got)
	assert.Less(t, time.Since(start), time.Second)
}

func TestStubClassify(t *testing.T) {
	s := NewStub()
	ctx := context.Background()

	got, err := s.Classify(ctx, "Buraco enorme na calçada, risco de acidente")
	assert.NoError(t, err)
	assert.Equal(t, store.SpecialtyInfrastructure, got.Category)
	assert.Equal(t, store.PriorityHigh, got.Priority)
	assert.Equal(t, "Buraco enorme na calçada, risco", got.Summary)

	got, err = s.Classify(ctx, "Poste apagado")
	assert.NoError(t, err)
	assert.Equal(t, store.SpecialtyLighting, got.Category)
	assert.Equal(t, store.PriorityLow, got.Priority)

	got, err = s.Classify(ctx, "Barulho de festa")
	assert.NoError(t, err)
	assert.Equal(t, store.SpecialtyGeneral, got.Category)
	assert.Equal(t, store.PriorityMedium, got.Priority)
}

func TestStubGenerateConfig(t *testing.T) {
	s := NewStub()
	current := store.SystemConfig{AppName: "ZelaPB", Version: "1.0.0", AllowRegistrations: true}

	got, err := s.GenerateConfig(context.Background(), current, "Ativar modo manutenção e subir para versão 1.2.0")
	assert.NoError(t, err)
	assert.True(t, got.MaintenanceMode)
	assert.Equal(t, "1.2.0", got.Version)
	assert.True(t, got.AllowRegistrations)

	got, err = s.GenerateConfig(context.Background(), got, "desativar manutenção e bloquear cadastros")
	assert.NoError(t, err)
	assert.False(t, got.MaintenanceMode)
	assert.False(t, got.AllowRegistrations)
}
