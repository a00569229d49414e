// Package cancellation provides best-effort cancellation over operations
// that cannot be cancelled natively.
//
// A Source is a one-shot cancellation signal, fired explicitly, by a
// time-to-live, or by its parent context. A Future is the handle of an
// operation that has already started. Await races the two: whichever
// completes first produces the result.
//
// The signal controls only the caller's wait. When the signal wins, the
// operation keeps running to completion in the background; its eventual
// result is orphaned and must be reclaimed by its owner (see AwaitOrphan).
//
//	src := cancellation.NewSourceAfter(ctx, 5*time.Second)
//	defer src.Close()
//
//	fut := cancellation.Go(func() (net.Conn, error) {
//	    return dialer.Dial("tcp", addr) // not cancellable
//	})
//	conn, err := cancellation.AwaitOrphan(src.Context(), fut, func(c net.Conn, err error) {
//	    if err == nil {
//	        c.Close()
//	    }
//	})
//	if errors.Is(err, cancellation.ErrOperationCancelled) {
//	    // timed out; the late connection is closed by the reclaim hook
//	}
package cancellation
