// Package collections provides generic container wrappers with explicit
// pre/post-mutation hooks, and cached read-only views over them.
//
// A HookedList or HookedMap delegates storage to an ordinary slice or map
// while letting the owner veto mutations (OnAdding/OnRemoving/OnSetting
// returning an error aborts the operation) or observe them after the fact.
//
// A View exposes an immutable snapshot of a HookedList, recomputed only when
// the list's version counter has moved, and swapped in with an atomic
// compare-and-swap so concurrent readers never see a torn rebuild.
package collections
