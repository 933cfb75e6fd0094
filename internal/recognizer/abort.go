package recognizer

import "context"

// continueWhile reports false once ctx is done. whisper.cpp calls it before
// each encoder window and aborts decoding on false.
func continueWhile(ctx context.Context) func() bool {
	return func() bool { return ctx.Err() == nil }
}
