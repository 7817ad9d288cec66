package provider

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// fakeProvider is a configurable in-memory provider for tests.
type fakeProvider struct {
	name      string
	caps      Capabilities
	fetchFunc func(ctx context.Context, req Request) (*Poster, error)
	confErr   error
}

func (f *fakeProvider) Name() string               { return f.name }
func (f *fakeProvider) Description() string        { return "fake provider" }
func (f *fakeProvider) Capabilities() Capabilities { return f.caps }
func (f *fakeProvider) ConfigSchema() ConfigSchema { return ConfigSchema{} }

func (f *fakeProvider) Configure(config map[string]interface{}) error {
	return f.confErr
}

func (f *fakeProvider) Fetch(ctx context.Context, req Request) (*Poster, error) {
	if f.fetchFunc != nil {
		return f.fetchFunc(ctx, req)
	}
	return nil, errors.New("not implemented")
}

func newFake(name string, auth bool, types ...MediaType) *fakeProvider {
	return &fakeProvider{
		name: name,
		caps: Capabilities{MediaTypes: types, RequiresAuth: auth},
	}
}

func TestRegisterDuplicate(t *testing.T) {
	r := NewRegistry()
	if err := r.Register("a", newFake("a", false, MediaTypeMovie), 10); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := r.Register("a", newFake("a", false, MediaTypeMovie), 10); err == nil {
		t.Fatal("Register() expected error for duplicate name")
	}
}

func TestRegisterNoMediaTypes(t *testing.T) {
	r := NewRegistry()
	if err := r.Register("empty", newFake("empty", false), 10); err == nil {
		t.Fatal("Register() expected error for provider with no media types")
	}
}

func TestListOrderedByPriority(t *testing.T) {
	r := NewRegistry()
	r.Register("low", newFake("low", false, MediaTypeMovie), 10)
	r.Register("high", newFake("high", false, MediaTypeMovie), 90)
	r.Register("mid", newFake("mid", false, MediaTypeMovie), 50)

	want := []string{"high", "mid", "low"}
	if diff := cmp.Diff(want, r.List()); diff != "" {
		t.Errorf("List() mismatch (-want +got):\n%s", diff)
	}
}

func TestEnableRequiresConfig(t *testing.T) {
	r := NewRegistry()
	r.Register("authed", newFake("authed", true, MediaTypeMovie), 10)

	if err := r.Enable("authed"); err == nil {
		t.Fatal("Enable() expected error for unconfigured auth provider")
	}

	if err := r.Configure("authed", map[string]interface{}{"api_key": "k"}); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}
	if err := r.Enable("authed"); err != nil {
		t.Fatalf("Enable() after configure error = %v", err)
	}
	if !r.IsEnabled("authed") {
		t.Error("IsEnabled() = false after Enable")
	}
}

func TestEnableUnknown(t *testing.T) {
	r := NewRegistry()
	if err := r.Enable("ghost"); err == nil {
		t.Fatal("Enable() expected error for unknown provider")
	}
}

func TestDisable(t *testing.T) {
	r := NewRegistry()
	r.Register("p", newFake("p", false, MediaTypeSeries), 10)
	r.Enable("p")
	if err := r.Disable("p"); err != nil {
		t.Fatalf("Disable() error = %v", err)
	}
	if r.IsEnabled("p") {
		t.Error("IsEnabled() = true after Disable")
	}
}

func TestConfigurePropagatesError(t *testing.T) {
	r := NewRegistry()
	p := newFake("bad", true, MediaTypeMovie)
	p.confErr = errors.New("missing key")
	r.Register("bad", p, 10)

	if err := r.Configure("bad", map[string]interface{}{}); err == nil {
		t.Fatal("Configure() expected provider error to propagate")
	}
}

func TestEnabledFor(t *testing.T) {
	r := NewRegistry()
	r.Register("movies", newFake("movies", false, MediaTypeMovie), 50)
	r.Register("series", newFake("series", false, MediaTypeSeries), 60)
	r.Register("both", newFake("both", false, MediaTypeMovie, MediaTypeSeries), 40)
	r.Enable("movies")
	r.Enable("series")
	r.Enable("both")

	got := r.EnabledFor(MediaTypeMovie)
	names := make([]string, len(got))
	for i, p := range got {
		names[i] = p.Name()
	}

	want := []string{"movies", "both"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("EnabledFor(movie) mismatch (-want +got):\n%s", diff)
	}

	r.Disable("movies")
	if got := r.EnabledFor(MediaTypeMovie); len(got) != 1 || got[0].Name() != "both" {
		t.Errorf("EnabledFor(movie) after disable = %v providers, want only both", len(got))
	}
}
