package notification

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriterNotifier(t *testing.T) {
	tests := []struct {
		name     string
		notice   Notice
		expected string
	}{
		{name: "given title should prefix message", notice: Success("Success", "Item added to cart!"), expected: "[success] Success: Item added to cart!\n"},
		{name: "given no title should print message", notice: Notice{Level: LevelInfo, Message: "hello"}, expected: "[info] hello\n"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var buffer bytes.Buffer
			NewWriterNotifier(&buffer).Notify(context.Background(), test.notice)
			assert.Equal(t, test.expected, buffer.String())
		})
	}
}

func TestMulti(t *testing.T) {
	first := &Recorder{}
	second := &Recorder{}
	notifier := Multi{first, nil, second, LogNotifier{}}

	notifier.Notify(context.Background(), Failure("Error", "boom"))

	assert.Equal(t, []Notice{Failure("Error", "boom")}, first.Notices())
	last, ok := second.Last()
	assert.True(t, ok)
	assert.Equal(t, LevelError, last.Level)
}
