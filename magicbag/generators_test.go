package magicbag

import (
	"iter"
	"sync/atomic"
	"testing"

	"github.com/mechlab/mechkit/errors"
)

type plugin interface {
	PluginName() string
}

type namedPlugin struct {
	name string
}

func (p *namedPlugin) PluginName() string { return p.name }

func pluginBuilder(names ...string) *Builder {
	b := NewBuilder()
	for _, name := range names {
		n := name
		MustBind(b, func(*Bag) (plugin, error) {
			return &namedPlugin{name: n}, nil
		}, Named(n))
	}
	return b
}

func TestLazyGenerator_DefersAndMemoizes(t *testing.T) {
	var calls int32
	b := NewBuilder()
	MustBind(b, func(*Bag) (*widget, error) {
		atomic.AddInt32(&calls, 1)
		return &widget{ID: 11}, nil
	})
	bag := b.MustBuild()

	lazy, err := Pull[Lazy[*widget]](bag)
	if err != nil {
		t.Fatalf("lazy pull failed: %v", err)
	}
	if calls != 0 {
		t.Fatalf("pulling the wrapper must not construct the value, factory ran %d times", calls)
	}

	w1, err := lazy.Value()
	if err != nil {
		t.Fatalf("Value failed: %v", err)
	}
	w2, err := lazy.Value()
	if err != nil {
		t.Fatalf("second Value failed: %v", err)
	}
	if calls != 1 {
		t.Errorf("factory ran %d times for one wrapper, want 1", calls)
	}
	if w1 != w2 || w1.ID != 11 {
		t.Error("memoized value must be stable")
	}
}

func TestLazyGenerator_WrappersMemoizeIndependently(t *testing.T) {
	var calls int32
	b := NewBuilder()
	MustBind(b, func(*Bag) (*widget, error) {
		atomic.AddInt32(&calls, 1)
		return &widget{}, nil
	})
	bag := b.MustBuild()

	l1 := MustPull[Lazy[*widget]](bag)
	l2 := MustPull[Lazy[*widget]](bag)
	if l1.MustValue() == l2.MustValue() {
		t.Error("separate wrappers over a transient mapping must construct separately")
	}
	if calls != 2 {
		t.Errorf("factory ran %d times, want 2", calls)
	}
}

func TestLazyGenerator_ErrorSurfacesOnAccess(t *testing.T) {
	bag := NewBuilder().MustBuild()

	lazy := MustPull[Lazy[*widget]](bag)
	_, err := lazy.Value()
	if err == nil {
		t.Fatal("expected deferred resolution failure")
	}
	if errors.CodeOf(err) != errors.ErrCodeNotRegistered {
		t.Errorf("expected NOT_REGISTERED, got %s", errors.CodeOf(err))
	}
}

func TestLazyGenerator_ComposesWithSliceShape(t *testing.T) {
	bag := pluginBuilder("a", "b").MustBuild()

	lazy := MustPull[Lazy[[]plugin]](bag)
	plugins := lazy.MustValue()
	if len(plugins) != 2 {
		t.Fatalf("expected 2 plugins through composed shapes, got %d", len(plugins))
	}
}

func TestSliceGenerator_ComposesWithFactoryShape(t *testing.T) {
	b := NewBuilder()
	MustBind(b, func(*Bag) (*widget, error) {
		return &widget{ID: 21}, nil
	})
	bag := b.MustBuild()

	factories, err := Pull[[]func() (*widget, error)](bag)
	if err != nil {
		t.Fatalf("slice-of-factory pull failed: %v", err)
	}
	if len(factories) != 1 {
		t.Fatalf("len(factories) = %d, want one per widget registration", len(factories))
	}
	w, err := factories[0]()
	if err != nil {
		t.Fatalf("composed factory failed: %v", err)
	}
	if w.ID != 21 {
		t.Errorf("composed factory produced ID %d, want 21", w.ID)
	}
}

func TestSliceGenerator_ComposedElementsKeepNames(t *testing.T) {
	bag := pluginBuilder("a", "b").MustBuild()

	lazies, err := Pull[[]Lazy[plugin]](bag)
	if err != nil {
		t.Fatalf("slice-of-lazy pull failed: %v", err)
	}
	if len(lazies) != 2 {
		t.Fatalf("len(lazies) = %d, want one per plugin registration", len(lazies))
	}
	for i, want := range []string{"a", "b"} {
		if got := lazies[i].MustValue().PluginName(); got != want {
			t.Errorf("lazies[%d] resolved %s, want %s", i, got, want)
		}
	}
}

func TestSeqGenerator_ComposesWithLazyShape(t *testing.T) {
	bag := pluginBuilder("x", "y").MustBuild()

	seq := MustPull[iter.Seq[Lazy[plugin]]](bag)
	var got []string
	for l := range seq {
		got = append(got, l.MustValue().PluginName())
	}
	if len(got) != 2 || got[0] != "x" || got[1] != "y" {
		t.Errorf("composed sequence resolved %v, want [x y]", got)
	}
}

func TestSliceGenerator_ExplicitElementRegistrationsWinOverComposition(t *testing.T) {
	b := pluginBuilder("ignored")
	MustBind(b, func(*Bag) (Lazy[plugin], error) {
		return func() (plugin, error) {
			return &namedPlugin{name: "explicit"}, nil
		}, nil
	})
	bag := b.MustBuild()

	lazies := MustPull[[]Lazy[plugin]](bag)
	if len(lazies) != 1 || lazies[0].MustValue().PluginName() != "explicit" {
		t.Errorf("explicit wrapper registration must take precedence over composition: %d elements", len(lazies))
	}
}

func TestSliceGenerator_RequestNameIgnored(t *testing.T) {
	bag := pluginBuilder("a", "b").MustBuild()

	plugins, err := PullNamed[[]plugin](bag, "whatever")
	if err != nil {
		t.Fatalf("named slice pull failed: %v", err)
	}
	if len(plugins) != 2 {
		t.Errorf("named slice request must collect all registrations, got %d", len(plugins))
	}
}

func TestFuncGenerator_FreshInstancePerCall(t *testing.T) {
	var calls int32
	b := NewBuilder()
	MustBind(b, func(*Bag) (*widget, error) {
		atomic.AddInt32(&calls, 1)
		return &widget{}, nil
	})
	bag := b.MustBuild()

	factory := MustPull[func() (*widget, error)](bag)
	w1, err := factory()
	if err != nil {
		t.Fatalf("factory call failed: %v", err)
	}
	w2, _ := factory()
	if w1 == w2 {
		t.Error("deferred factory must resolve fresh per call")
	}
	if calls != 2 {
		t.Errorf("factory ran %d times, want 2", calls)
	}
}

func TestFuncGenerator_SingleResultShape(t *testing.T) {
	b := NewBuilder()
	MustBind(b, func(*Bag) (*widget, error) {
		return &widget{ID: 4}, nil
	})
	bag := b.MustBuild()

	factory := MustPull[func() *widget](bag)
	if got := factory(); got.ID != 4 {
		t.Errorf("got ID %d, want 4", got.ID)
	}
}

func TestFuncGenerator_SingleResultPanicsOnFailure(t *testing.T) {
	bag := NewBuilder().MustBuild()

	factory := MustPull[func() *widget](bag)
	defer func() {
		if recover() == nil {
			t.Error("expected panic from single-result factory on resolution failure")
		}
	}()
	factory()
}

func TestSliceGenerator_CollectsRegistrationsInOrder(t *testing.T) {
	tests := []struct {
		name  string
		names []string
	}{
		{"zero", nil},
		{"one", []string{"solo"}},
		{"many", []string{"first", "second", "third"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bag := pluginBuilder(tt.names...).MustBuild()

			plugins, err := Pull[[]plugin](bag)
			if err != nil {
				t.Fatalf("slice pull failed: %v", err)
			}
			if plugins == nil {
				t.Fatal("expected non-nil slice even with zero registrations")
			}
			if len(plugins) != len(tt.names) {
				t.Fatalf("got %d plugins, want %d", len(plugins), len(tt.names))
			}
			for i, name := range tt.names {
				if plugins[i].PluginName() != name {
					t.Errorf("plugins[%d] = %s, want %s (registration order)", i, plugins[i].PluginName(), name)
				}
			}
		})
	}
}

func TestSliceGenerator_ExplicitMappingWins(t *testing.T) {
	b := pluginBuilder("ignored")
	MustBind(b, func(*Bag) ([]plugin, error) {
		return []plugin{&namedPlugin{name: "explicit"}}, nil
	})
	bag := b.MustBuild()

	plugins := MustPull[[]plugin](bag)
	if len(plugins) != 1 || plugins[0].PluginName() != "explicit" {
		t.Errorf("explicit registration must take precedence over synthesis: %v", plugins)
	}
}

func TestSliceGenerator_IncludesParentRegistrations(t *testing.T) {
	parentBag := pluginBuilder("parent").MustBuild()
	child := Extend(parentBag)
	MustBind(child, func(*Bag) (plugin, error) {
		return &namedPlugin{name: "child"}, nil
	}, Named("child"))
	childBag := child.MustBuild()

	plugins := MustPull[[]plugin](childBag)
	if len(plugins) != 2 {
		t.Fatalf("got %d plugins, want parent + child", len(plugins))
	}
	if plugins[0].PluginName() != "parent" || plugins[1].PluginName() != "child" {
		t.Errorf("parent registrations must precede child additions: %v", plugins)
	}
}

func TestSeqGenerator_YieldsRegistrationsInOrder(t *testing.T) {
	bag := pluginBuilder("one", "two").MustBuild()

	seq, err := Pull[iter.Seq[plugin]](bag)
	if err != nil {
		t.Fatalf("seq pull failed: %v", err)
	}
	var got []string
	for p := range seq {
		got = append(got, p.PluginName())
	}
	if len(got) != 2 || got[0] != "one" || got[1] != "two" {
		t.Errorf("unexpected sequence order: %v", got)
	}
}

func TestSeqGenerator_EmptyWhenNoRegistrations(t *testing.T) {
	bag := NewBuilder().MustBuild()

	seq := MustPull[iter.Seq[plugin]](bag)
	for range seq {
		t.Fatal("expected empty sequence")
	}
}

func TestSeqGenerator_EarlyBreak(t *testing.T) {
	bag := pluginBuilder("a", "b", "c").MustBuild()

	seq := MustPull[iter.Seq[plugin]](bag)
	count := 0
	for range seq {
		count++
		if count == 2 {
			break
		}
	}
	if count != 2 {
		t.Errorf("early break consumed %d items, want 2", count)
	}
}

func TestArrayGenerator_ExactCount(t *testing.T) {
	bag := pluginBuilder("a", "b").MustBuild()

	arr, err := Pull[[2]plugin](bag)
	if err != nil {
		t.Fatalf("array pull failed: %v", err)
	}
	if arr[0].PluginName() != "a" || arr[1].PluginName() != "b" {
		t.Errorf("unexpected array contents: %v", arr)
	}
}

func TestArrayGenerator_CountMismatchFails(t *testing.T) {
	bag := pluginBuilder("a", "b").MustBuild()

	_, err := Pull[[3]plugin](bag)
	if err == nil {
		t.Fatal("expected size mismatch error")
	}
	if errors.CodeOf(err) != errors.ErrCodeArraySizeMismatch {
		t.Errorf("expected ARRAY_SIZE_MISMATCH, got %s", errors.CodeOf(err))
	}
}

func TestGenerators_SynthesisNotPersisted(t *testing.T) {
	bag := pluginBuilder("a").MustBuild()

	if _, err := Pull[[]plugin](bag); err != nil {
		t.Fatalf("first synthesis failed: %v", err)
	}
	// Re-synthesis on every miss: still resolvable, still not registered.
	if _, err := Pull[[]plugin](bag); err != nil {
		t.Fatalf("second synthesis failed: %v", err)
	}
	if IsRegistered[[]plugin](bag) {
		t.Error("synthesized mappings must not enter the registry")
	}
}

func TestWithGenerators_DisablesSynthesis(t *testing.T) {
	b := pluginBuilder("a")
	b.WithGenerators()
	bag := b.MustBuild()

	_, err := Pull[[]plugin](bag)
	if err == nil {
		t.Fatal("expected miss with generators disabled")
	}
	if errors.CodeOf(err) != errors.ErrCodeNotRegistered {
		t.Errorf("expected NOT_REGISTERED, got %s", errors.CodeOf(err))
	}
}

func TestDefaultGenerators_Names(t *testing.T) {
	want := []string{"lazy", "seq", "func", "slice", "array"}
	gens := DefaultGenerators()
	if len(gens) != len(want) {
		t.Fatalf("got %d generators, want %d", len(gens), len(want))
	}
	for i, g := range gens {
		if g.GeneratorName() != want[i] {
			t.Errorf("generator[%d] = %s, want %s", i, g.GeneratorName(), want[i])
		}
	}
}
