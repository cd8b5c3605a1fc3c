package internal_capture

import (
	"context"
	"sync"

	internal_type "github.com/delloop-lab/mypracticehelper-sub000/api/session-api/internal/type"
	"github.com/delloop-lab/mypracticehelper-sub000/pkg/commons"
)

func newTestLogger() commons.Logger {
	l, _ := commons.NewApplicationLoggerWithLevel("error")
	return l
}

// fakeRecognizer lets tests drive recognition events by hand.
type fakeRecognizer struct {
	mu        sync.Mutex
	callbacks internal_type.RecognizerCallbacks
	ctx       context.Context
	starts    int
	stops     int
	startErr  error
	fed       [][]byte
}

func (f *fakeRecognizer) Start(ctx context.Context, callbacks internal_type.RecognizerCallbacks) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.startErr != nil {
		return f.startErr
	}
	f.callbacks = callbacks
	f.ctx = ctx
	f.starts++
	return nil
}

func (f *fakeRecognizer) Feed(_ context.Context, audio []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fed = append(f.fed, audio)
	return nil
}

func (f *fakeRecognizer) Stop() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stops++
	return nil
}

func (f *fakeRecognizer) emitResult(text string, isFinal bool) {
	f.mu.Lock()
	cb := f.callbacks.OnResult
	f.mu.Unlock()
	if cb != nil {
		cb(text, isFinal)
	}
}

func (f *fakeRecognizer) emitEnded() {
	f.mu.Lock()
	cb := f.callbacks.OnEnded
	f.mu.Unlock()
	if cb != nil {
		cb()
	}
}

func (f *fakeRecognizer) startCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.starts
}

func (f *fakeRecognizer) startCtx() context.Context {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ctx
}

// fakeDevice hands pushed chunks to whoever acquired it.
type fakeDevice struct {
	mu         sync.Mutex
	onChunk    func([]byte)
	acquireErr error
	acquired   bool
	stopped    bool
}

func (f *fakeDevice) Acquire(_ context.Context, onChunk func([]byte)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.acquireErr != nil {
		return f.acquireErr
	}
	f.onChunk = onChunk
	f.acquired = true
	return nil
}

func (f *fakeDevice) push(data []byte) {
	f.mu.Lock()
	cb := f.onChunk
	f.mu.Unlock()
	if cb != nil {
		cb(data)
	}
}

func (f *fakeDevice) Stop() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
	return nil
}

// fakeTranscriber is a canned remote fallback.
type fakeTranscriber struct {
	mu       sync.Mutex
	text     string
	err      error
	calls    int
	fileName string
}

func (f *fakeTranscriber) Transcribe(_ context.Context, _ []byte, fileName string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.fileName = fileName
	return f.text, f.err
}

func (f *fakeTranscriber) lastFileName() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fileName
}
