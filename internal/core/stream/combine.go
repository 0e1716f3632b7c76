package stream

import "context"

// CombineLatest4 joins four sources. Whenever any input emits, fn is
// recomputed from the most recent value of every input. Nothing is
// emitted until each input has produced at least one value.
//
// The combined source completes when all inputs have completed, or as
// soon as an input completes without ever emitting. An input that fails
// fails the combination.
func CombineLatest4[A, B, C, D, R any](
	a Source[A],
	b Source[B],
	c Source[C],
	d Source[D],
	fn func(A, B, C, D) R,
) Source[R] {
	return FromFunc(func(ctx context.Context, emit func(R)) error {
		sa, sb, sc, sd := a.Subscribe(), b.Subscribe(), c.Subscribe(), d.Subscribe()
		defer sa.Close()
		defer sb.Close()
		defer sc.Close()
		defer sd.Close()

		var (
			va A
			vb B
			vc C
			vd D
		)
		var seen [4]bool
		ca, cb, cc, cd := sa.C(), sb.C(), sc.C(), sd.C()

		// ended handles an input completing; it reports whether the
		// combination can still produce values.
		ended := func(i int) bool {
			return seen[i] && (ca != nil || cb != nil || cc != nil || cd != nil)
		}

		for {
			select {
			case <-ctx.Done():
				return nil
			case v, ok := <-ca:
				if !ok {
					ca = nil
					if err := sa.Err(); err != nil {
						return err
					}
					if !ended(0) {
						return nil
					}
					continue
				}
				va, seen[0] = v, true
			case v, ok := <-cb:
				if !ok {
					cb = nil
					if err := sb.Err(); err != nil {
						return err
					}
					if !ended(1) {
						return nil
					}
					continue
				}
				vb, seen[1] = v, true
			case v, ok := <-cc:
				if !ok {
					cc = nil
					if err := sc.Err(); err != nil {
						return err
					}
					if !ended(2) {
						return nil
					}
					continue
				}
				vc, seen[2] = v, true
			case v, ok := <-cd:
				if !ok {
					cd = nil
					if err := sd.Err(); err != nil {
						return err
					}
					if !ended(3) {
						return nil
					}
					continue
				}
				vd, seen[3] = v, true
			}

			if seen[0] && seen[1] && seen[2] && seen[3] {
				emit(fn(va, vb, vc, vd))
			}
		}
	})
}
