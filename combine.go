package evgo

// The combinators below compose a finite ordered list of input promises
// into one output promise, aggregating partial results in a plain shared
// context that only the owning loop touches.
//
// None of them take ownership of the inputs: each input just gets the
// combinator's continuation attached. The caller must keep the input
// promises alive until they settle, or the output may never settle. The
// continuations do own the output state, like any chain continuation owns
// its downstream, so the output settles even if its handle is dropped; a
// settlement past the first is ignored for free.

// All returns a promise that resolves once every input resolves, carrying
// the input values indexed positionally by input order. If any input
// rejects, the output rejects with that error and the remaining results are
// discarded; the remaining inputs are not cancelled.
//
// An empty input list resolves immediately with an empty slice.
//
// All does not keep the input promises alive; see the package note above.
func All[T any](exec Executor, ps ...*Promise[T]) *Promise[[]T] {
	out := New[[]T](exec)
	if len(ps) == 0 {
		out.stat.settle(Val([]T{}))
		return out
	}

	ctx := &struct {
		remaining int
		results   []T
	}{remaining: len(ps), results: make([]T, len(ps))}

	st := out.stat
	for idx, p := range ps {
		p.Then(func(r Result[T]) {
			if r.Err() != nil {
				st.settle(Err[[]T](r.Err()))
				return
			}
			ctx.results[idx] = r.Val()
			if ctx.remaining--; ctx.remaining == 0 {
				st.settle(Val(ctx.results))
			}
		}, exec)
	}
	return out
}

// Any returns a success-biased promise: it resolves with the value of the
// first input to resolve, and rejects only once every input has rejected,
// with an *AggregateError carrying the errors indexed positionally by input
// order.
//
// An empty input list rejects immediately with an empty *AggregateError.
//
// Any does not keep the input promises alive; see the package note above.
func Any[T any](exec Executor, ps ...*Promise[T]) *Promise[T] {
	out := New[T](exec)
	if len(ps) == 0 {
		out.stat.settle(Err[T](NewAggregateError()))
		return out
	}

	ctx := &struct {
		remaining int
		errs      []error
	}{remaining: len(ps), errs: make([]error, len(ps))}

	st := out.stat
	for idx, p := range ps {
		p.Then(func(r Result[T]) {
			if r.Err() != nil {
				ctx.errs[idx] = r.Err()
				if ctx.remaining--; ctx.remaining == 0 {
					st.settle(Err[T](NewAggregateError(ctx.errs...)))
				}
				return
			}
			st.settle(r)
		}, exec)
	}
	return out
}

// Race returns a promise that adopts the first settlement among the inputs,
// of either variant; later settlements are ignored.
//
// Race panics on an empty input list.
//
// Race does not keep the input promises alive; see the package note above.
func Race[T any](exec Executor, ps ...*Promise[T]) *Promise[T] {
	if len(ps) == 0 {
		panic(noPromisesPanicMsg)
	}

	out := New[T](exec)
	st := out.stat
	for _, p := range ps {
		p.Then(func(r Result[T]) {
			st.settle(r)
		}, exec)
	}
	return out
}
