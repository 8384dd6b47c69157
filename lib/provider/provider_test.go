// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package provider

import (
	"context"
	"errors"
	"testing"
)

func TestResolveClassification(t *testing.T) {
	ctx := context.Background()
	evaluationErr := errors.New("evaluation failed")

	tests := []struct {
		name string
		p    Provider
		want State
	}{
		{"nil provider", nil, StateMissing},
		{"absent", Absent(), StateMissing},
		{"fixed", Of(42), StateFixed},
		{"fixed nil", Of(nil), StateFixed},
		{"failed", Failed(evaluationErr), StateBroken},
		{"value source", NewSourceProvider(NewValueSource("Env", "EnvParams", nil), nil), StateChanging},
		{"managed service", NewServiceProvider(&ManagedService{Name: "db"}), StateChanging},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			value := Resolve(ctx, test.p)
			if value.State() != test.want {
				t.Errorf("Resolve state = %v, want %v", value.State(), test.want)
			}
		})
	}
}

func TestResolveCapturesFixedValue(t *testing.T) {
	value := Resolve(context.Background(), Of(42))
	if value.Fixed() != 42 {
		t.Errorf("Fixed() = %v, want 42", value.Fixed())
	}
}

func TestResolveDoesNotEvaluateChangingProvider(t *testing.T) {
	evaluated := false
	source := NewSourceProvider(NewValueSource("Exec", "ExecParams", "git rev-parse HEAD"),
		func(context.Context) (any, bool, error) {
			evaluated = true
			return "abc123", true, nil
		})

	value := Resolve(context.Background(), source)
	if value.State() != StateChanging {
		t.Fatalf("state = %v, want changing", value.State())
	}
	if evaluated {
		t.Error("resolving a changing provider must not evaluate it")
	}
}

func TestBrokenReplaysOnEvaluation(t *testing.T) {
	evaluationErr := errors.New("div by zero")
	value := Resolve(context.Background(), Failed(evaluationErr))

	// Resolution itself does not surface the error.
	if value.State() != StateBroken {
		t.Fatalf("state = %v, want broken", value.State())
	}

	// Evaluation of the round-tripped provider does.
	_, _, err := value.Provider().Get(context.Background())
	if !errors.Is(err, evaluationErr) {
		t.Errorf("Get() error = %v, want %v", err, evaluationErr)
	}
}

func TestValueProviderRoundtrip(t *testing.T) {
	ctx := context.Background()

	missing := MissingValue().Provider()
	if _, ok, err := missing.Get(ctx); ok || err != nil {
		t.Errorf("missing provider: ok=%v err=%v", ok, err)
	}

	fixed := FixedValue("hello").Provider()
	if v, ok, err := fixed.Get(ctx); !ok || err != nil || v != "hello" {
		t.Errorf("fixed provider: v=%v ok=%v err=%v", v, ok, err)
	}

	inner := NewServiceProvider(&ManagedService{Name: "cache"})
	if got := ChangingValue(inner).Provider(); got != Provider(inner) {
		t.Errorf("changing provider: got %v, want the inner provider", got)
	}
}

func TestSourceObtainedOnGet(t *testing.T) {
	source := NewValueSource("Env", "EnvParams", "PATH")
	p := NewSourceProvider(source, func(context.Context) (any, bool, error) {
		return "/usr/bin", true, nil
	})

	if source.Obtained() {
		t.Fatal("source obtained before Get")
	}
	if _, _, err := p.Get(context.Background()); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !source.Obtained() {
		t.Error("source not marked obtained after Get")
	}
}

func TestUnboundSourceFailsOnGet(t *testing.T) {
	p := NewSourceProvider(NewValueSource("Env", "EnvParams", "PATH"), nil)
	if _, _, err := p.Get(context.Background()); err == nil {
		t.Fatal("expected error from unbound source provider")
	}
}
