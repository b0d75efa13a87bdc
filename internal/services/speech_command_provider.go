package services

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"

	"github.com/kballard/go-shellquote"
	"github.com/tidwall/gjson"

	"greenthumb/internal/logger"
	"greenthumb/pkg/gardentypes"
)

// localePlaceholder is replaced by the recognition locale in the speech command.
const localePlaceholder = "{lang}"

// CommandSpeechProvider runs an external speech-to-text command and reads one JSON
// event per line from its stdout:
//
//	{"transcript": "plant tomatoes", "isFinal": false}
//	{"error": "no-speech"}
//	{"end": true}
type CommandSpeechProvider struct {
	command string
}

// NewCommandSpeechProvider creates a provider for command. An empty command is unsupported.
func NewCommandSpeechProvider(command string) *CommandSpeechProvider {
	return &CommandSpeechProvider{command: strings.TrimSpace(command)}
}

// IsSupported reports whether a command is configured.
func (p *CommandSpeechProvider) IsSupported() bool {
	return p.command != ""
}

// Open starts the command for locale.
func (p *CommandSpeechProvider) Open(ctx context.Context, locale string) (gardentypes.SpeechStream, error) {
	if !p.IsSupported() {
		return nil, ErrSpeechUnsupported
	}

	args, err := shellquote.Split(strings.ReplaceAll(p.command, localePlaceholder, locale))
	if err != nil {
		return nil, fmt.Errorf("invalid speech command: %w", err)
	}
	if len(args) == 0 {
		return nil, ErrSpeechUnsupported
	}

	runCtx, cancel := context.WithCancel(ctx)
	cmd := exec.CommandContext(runCtx, args[0], args[1:]...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to attach to speech command: %w", err)
	}
	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to start speech command %s: %w", args[0], err)
	}

	stream := &commandSpeechStream{
		cmd:     cmd,
		cancel:  cancel,
		events:  make(chan gardentypes.ProviderEvent),
		stopped: make(chan struct{}),
	}
	go stream.read(stdout)
	return stream, nil
}

type commandSpeechStream struct {
	cmd      *exec.Cmd
	cancel   context.CancelFunc
	events   chan gardentypes.ProviderEvent
	stopped  chan struct{}
	stopOnce sync.Once
}

func (s *commandSpeechStream) Events() <-chan gardentypes.ProviderEvent {
	return s.events
}

// Stop terminates the command. Calling Stop more than once is safe.
func (s *commandSpeechStream) Stop() error {
	s.stopOnce.Do(func() {
		close(s.stopped)
		s.cancel()
	})
	return nil
}

func (s *commandSpeechStream) read(stdout io.Reader) {
	defer close(s.events)

	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		event, ok := parseSpeechLine(scanner.Text())
		if !ok {
			continue
		}
		if !s.send(event) {
			break
		}
		if event.Kind != gardentypes.ProviderResult {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		logger.Debug("Speech command output ended with error", "error", err)
	}

	s.cancel()
	if err := s.cmd.Wait(); err != nil {
		logger.Debug("Speech command exited", "error", err)
	}
	s.send(gardentypes.ProviderEvent{Kind: gardentypes.ProviderEnd})
}

func (s *commandSpeechStream) send(event gardentypes.ProviderEvent) bool {
	select {
	case s.events <- event:
		return true
	case <-s.stopped:
		return false
	}
}

// parseSpeechLine decodes one output line. Lines that are not JSON objects are skipped.
func parseSpeechLine(line string) (gardentypes.ProviderEvent, bool) {
	line = strings.TrimSpace(line)
	if line == "" || !gjson.Valid(line) {
		return gardentypes.ProviderEvent{}, false
	}
	doc := gjson.Parse(line)
	if !doc.IsObject() {
		return gardentypes.ProviderEvent{}, false
	}

	if code := doc.Get("error"); code.Exists() {
		return gardentypes.ProviderEvent{Kind: gardentypes.ProviderError, ErrorCode: code.String()}, true
	}
	if transcript := doc.Get("transcript"); transcript.Exists() {
		return gardentypes.ProviderEvent{
			Kind:       gardentypes.ProviderResult,
			Transcript: transcript.String(),
			IsFinal:    doc.Get("isFinal").Bool(),
		}, true
	}
	if doc.Get("end").Bool() {
		return gardentypes.ProviderEvent{Kind: gardentypes.ProviderEnd}, true
	}
	return gardentypes.ProviderEvent{}, false
}
