package notification

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/internal/constants"
)

type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notice is a user-facing message, the equivalent of an alert or toast.
type Notice struct {
	Level   Level
	Title   string
	Message string
}

func (n Notice) MarshalZerologObject(e *zerolog.Event) {
	e.Str("level", string(n.Level)).Str("title", n.Title).Str("message", n.Message)
}

type Notifier interface {
	Notify(c context.Context, notice Notice)
}

func Success(title string, message string) Notice {
	return Notice{Level: LevelSuccess, Title: title, Message: message}
}

func Failure(title string, message string) Notice {
	return Notice{Level: LevelError, Title: title, Message: message}
}

func Info(title string, message string) Notice {
	return Notice{Level: LevelInfo, Title: title, Message: message}
}

// WriterNotifier prints notices as "[level] title: message" lines.
type WriterNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriterNotifier(w io.Writer) *WriterNotifier {
	return &WriterNotifier{w: w}
}

func (n *WriterNotifier) Notify(_ context.Context, notice Notice) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if notice.Title == "" {
		fmt.Fprintf(n.w, "[%s] %s\n", notice.Level, notice.Message)
		return
	}
	fmt.Fprintf(n.w, "[%s] %s: %s\n", notice.Level, notice.Title, notice.Message)
}

type LogNotifier struct{}

func (LogNotifier) Notify(c context.Context, notice Notice) {
	logger := zerolog.Ctx(c).With().Str(constants.KEY_TAG, "LogNotifier Notify").Logger()
	event := logger.Info()
	if notice.Level == LevelError {
		event = logger.Warn()
	}
	event.Object("notice", notice).Msg(notice.Message)
}

// Multi fans a notice out to every notifier.
type Multi []Notifier

func (m Multi) Notify(c context.Context, notice Notice) {
	for _, n := range m {
		if n != nil {
			n.Notify(c, notice)
		}
	}
}

// Recorder keeps every notice, for embedding applications that render them later.
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *Recorder) Notify(_ context.Context, notice Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, notice)
}

func (r *Recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notice{}, r.notices...)
}

func (r *Recorder) Last() (Notice, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notices) == 0 {
		return Notice{}, false
	}
	return r.notices[len(r.notices)-1], true
}
