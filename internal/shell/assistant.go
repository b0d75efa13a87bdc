package shell

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/abiosoft/ishell/v2"

	"greenthumb/internal/logger"
	"greenthumb/internal/output"
	"greenthumb/internal/services"
)

const assistantHelp = `Type a question and press Enter to ask the assistant.
  /listen   speak your question instead of typing it
  /stop     stop listening
  /history  list saved schedules
  /help     show this help
  /exit     leave the assistant`

// AssistantOptions configures an Assistant.
type AssistantOptions struct {
	Printer *output.Printer
	// Lang is the display-language code; it selects the speech locale.
	Lang string
	// Timeout bounds each assistant reply. Zero means no limit.
	Timeout time.Duration
}

// Assistant drives one assistant conversation from typed lines and speech transcripts.
type Assistant struct {
	mu      sync.Mutex
	session *services.AssistantSession
	speech  *services.SpeechService
	history *services.HistoryService
	printer *output.Printer
	lang    string
	timeout time.Duration
}

// NewAssistant creates an Assistant over an open session. speech and history may be nil.
func NewAssistant(session *services.AssistantSession, speech *services.SpeechService, history *services.HistoryService, opts AssistantOptions) *Assistant {
	printer := opts.Printer
	if printer == nil {
		printer = output.GetGlobalPrinter()
	}
	return &Assistant{
		session: session,
		speech:  speech,
		history: history,
		printer: printer,
		lang:    opts.Lang,
		timeout: opts.Timeout,
	}
}

// Welcome prints the conversation so far (the welcome turn) and the command hint.
func (a *Assistant) Welcome() {
	for _, message := range a.session.Messages() {
		a.printer.Assistant(message.Text)
	}
	a.printer.Muted("Type /help for commands, /exit to leave.")
}

// Handle processes one input line and reports whether the user asked to leave.
func (a *Assistant) Handle(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	if !strings.HasPrefix(line, "/") {
		a.send(ctx, line)
		return false
	}

	command := strings.ToLower(strings.Fields(line)[0])
	switch command {
	case "/exit", "/quit":
		a.stopListening()
		return true
	case "/listen":
		a.listen(ctx)
	case "/stop":
		a.stop()
	case "/history":
		a.showHistory(ctx)
	case "/help":
		a.printer.Println(assistantHelp)
	default:
		a.printer.Warning(fmt.Sprintf("Unknown command %s. Type /help for commands.", command))
	}
	return false
}

// send asks the assistant and prints its reply. Replies are serialized so a spoken
// question and a typed one never interleave.
func (a *Assistant) send(ctx context.Context, text string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	reply, err := a.session.Send(ctx, text)
	if err != nil {
		logger.Error("Assistant request failed", "error", err)
		a.printer.Assistant(services.AssistantApologyMessage)
		a.printer.Error(services.UserMessage(err))
		return
	}
	a.printer.Assistant(reply.Text)
}

func (a *Assistant) listen(ctx context.Context) {
	if a.speech == nil || !a.speech.IsSupported() {
		a.printer.Warning(services.UserMessage(services.ErrSpeechUnsupported))
		return
	}

	callbacks := services.SpeechCallbacks{
		OnStart: func() {
			a.printer.Info("Listening... type /stop to cancel.")
		},
		OnResult: func(text string, isFinal bool) {
			if !isFinal {
				a.printer.Muted(text)
				return
			}
			a.printer.User(text)
			a.send(ctx, text)
		},
		OnError: func(message string) {
			a.printer.Error(message)
		},
		OnEnd: func() {
			a.printer.Muted("Stopped listening.")
		},
	}

	if err := a.speech.StartListening(ctx, callbacks, services.ListenOptions{Lang: a.lang}); err != nil {
		logger.Error("Speech recognition failed to start", "error", err)
		a.printer.Error(services.UserMessage(err))
	}
}

func (a *Assistant) stop() {
	if a.speech == nil || a.speech.State() != services.SpeechListening {
		a.printer.Muted("Not listening.")
		return
	}
	a.speech.StopListening()
}

func (a *Assistant) stopListening() {
	if a.speech != nil {
		a.speech.StopListening()
	}
}

func (a *Assistant) showHistory(ctx context.Context) {
	if a.history == nil {
		a.printer.Muted("No saved schedules.")
		return
	}

	entries, err := a.history.List(ctx)
	if err != nil {
		a.printer.Error(services.UserMessage(err))
		return
	}
	if len(entries) == 0 {
		a.printer.Muted("No saved schedules. Save one with `greenthumb history save`.")
		return
	}
	for i, entry := range entries {
		a.printer.Println(FormatHistoryLine(i+1, entry))
	}
}

// RunAssistant runs the interactive REPL until /exit, EOF or a second Ctrl-C.
func RunAssistant(ctx context.Context, a *Assistant) {
	sh := ishell.New()
	sh.SetPrompt("you> ")

	// Lines are routed to the assistant, not ishell's built-ins.
	sh.DeleteCmd("exit")
	sh.DeleteCmd("help")
	sh.DeleteCmd("clear")

	sh.NotFound(func(c *ishell.Context) {
		if a.Handle(ctx, strings.Join(c.RawArgs, " ")) {
			c.Stop()
		}
	})
	sh.Interrupt(func(c *ishell.Context, count int, _ string) {
		if a.speech != nil && a.speech.State() == services.SpeechListening {
			a.speech.StopListening()
			return
		}
		if count >= 2 {
			c.Stop()
			return
		}
		a.printer.Muted("Press Ctrl-C again or type /exit to leave.")
	})
	sh.EOF(func(c *ishell.Context) {
		a.stopListening()
		c.Stop()
	})

	a.Welcome()
	sh.Run()
	a.stopListening()
}
