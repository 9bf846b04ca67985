// Package magicbag provides an immutable, type-keyed resolution container.
//
// A Bag maps request keys (a Go type plus an optional name) to construction
// strategies. Callers pull fully built object graphs out of the bag instead
// of scattering constructor calls through application code:
//
//	b := magicbag.NewBuilder()
//	magicbag.Bind(b, func(bag *magicbag.Bag) (*Repo, error) {
//	    db, err := magicbag.Pull[*DB](bag)
//	    if err != nil {
//	        return nil, err
//	    }
//	    return &Repo{DB: db}, nil
//	}, magicbag.AsSingleton())
//	bag, err := b.Build()
//	repo, err := magicbag.Pull[*Repo](bag)
//
// Mappings are declared through a Builder and frozen at Build time; a Bag is
// immutable and safe for concurrent use. Declaring two mappings for the same
// key fails at Build, not at first resolution. Lifetimes are Transient (a
// fresh instance per pull, the default) or Singleton (one instance per bag,
// constructed at most once even under concurrent first access).
//
// Request shapes with no explicit mapping can be synthesized on the fly by
// mapping generators: magicbag.Lazy[X] (memoized deferred value), iter.Seq[X]
// (one instance per explicit registration of X), func() X / func() (X, error)
// (fresh X per call), []X and [N]X (one instance per registration). Shapes
// compose: []func() X or iter.Seq[Lazy[X]] yields one wrapper per explicit
// registration of X. Generator results are never persisted into the registry.
//
// A bag can be extended: Extend(parent) starts a builder whose bag falls back
// to the parent's registry on miss, enabling scoped or test-time overrides
// without mutating the shared bag.
//
// Cyclic mappings are not detected; a cycle between two factories recurses
// until the stack is exhausted.
package magicbag
