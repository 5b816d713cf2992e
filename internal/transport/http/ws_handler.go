package http

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"brainbank-service/internal/app"
	"brainbank-service/internal/domain"
	"github.com/gorilla/websocket"
)

// WSHandler serves one player per websocket connection. It is the
// rendering/UI collaborator: the game core stays decoupled from the
// wire protocol here.
type WSHandler struct {
	service     *app.GameService
	upgrader    websocket.Upgrader
	revealDelay time.Duration
}

func NewWSHandler(service *app.GameService) *WSHandler {
	return NewWSHandlerWithDelay(service, 1200*time.Millisecond)
}

// NewWSHandlerWithDelay sets the cosmetic pause between the answer
// reveal and the next question (or the completion summary). Tests pass
// zero to advance immediately.
func NewWSHandlerWithDelay(service *app.GameService, revealDelay time.Duration) *WSHandler {
	return &WSHandler{
		service:     service,
		revealDelay: revealDelay,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

type answerPayload struct {
	Choice int `json:"choice"`
}

type lessonsPayload struct {
	Tag   string `json:"tag"`
	Query string `json:"query"`
}

type renamePayload struct {
	Name string `json:"name"`
}

type addEntryPayload struct {
	Name  string `json:"name"`
	Coins int    `json:"coins"`
}

type simulatePayload struct {
	Years int `json:"years"`
}

// questionView is what the client sees: no correct index, no explanation.
type questionView struct {
	Index   int      `json:"index"`
	Total   int      `json:"total"`
	Daily   bool     `json:"daily"`
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
}

type answerResultView struct {
	Correct      bool   `json:"correct"`
	CorrectIndex int    `json:"correctIndex"`
	Explanation  string `json:"explanation"`
	Finished     bool   `json:"finished"`
}

type quizCompleteView struct {
	Correct int                   `json:"correct"`
	Total   int                   `json:"total"`
	Reward  domain.RewardResult   `json:"reward"`
	Stats   domain.DashboardStats `json:"stats"`
}

// ServeWS upgrades the request and runs the per-player message loop.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		http.Error(w, "missing name", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	stats, err := h.service.Login(r.Context(), name)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	player := stats.Name

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})

	// The send channel is never closed; a pending DelayedAction may fire
	// during teardown, so the writer drains until closeSignals instead.
	go func() {
		defer close(writerDone)
		for {
			select {
			case msg := <-send:
				if err := conn.WriteJSON(msg); err != nil {
					log.Printf("ws write error: %v", err)
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	trySend := func(msg outboundMessage[any]) {
		select {
		case send <- msg:
		case <-closeSignals:
		}
	}

	// quiz is per-connection display state; scored state lives in the service.
	var quiz struct {
		total   int
		index   int
		correct int
		pending *app.DelayedAction
	}

	pushQuestion := func(index, total int, daily bool, q domain.QuestionItem) {
		trySend(outboundMessage[any]{Type: "question", Payload: questionView{
			Index:   index,
			Total:   total,
			Daily:   daily,
			Prompt:  q.Prompt,
			Options: q.Options,
		}})
	}

	trySend(outboundMessage[any]{Type: "welcome", Payload: stats})

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}

		switch inbound.Type {
		case "startDaily", "startQuiz":
			quiz.pending.Cancel()
			var start app.QuizStart
			var err error
			if inbound.Type == "startDaily" {
				start, err = h.service.StartDaily(r.Context(), player)
			} else {
				start, err = h.service.StartQuick(r.Context(), player)
			}
			if err != nil {
				trySend(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}})
				continue
			}
			quiz.total = start.Total
			quiz.index = 0
			quiz.correct = 0
			pushQuestion(0, start.Total, start.Daily, start.First)

		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				trySend(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid answer payload"}})
				continue
			}
			feedback, reward, err := h.service.SubmitAnswer(r.Context(), player, payload.Choice)
			if err != nil {
				trySend(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}})
				continue
			}
			if feedback.Correct {
				quiz.correct++
			}
			quiz.index++
			trySend(outboundMessage[any]{Type: "answerResult", Payload: answerResultView{
				Correct:      feedback.Correct,
				CorrectIndex: feedback.CorrectIndex,
				Explanation:  feedback.Explanation,
				Finished:     feedback.Finished,
			}})

			if feedback.Finished {
				summary := quizCompleteView{Correct: quiz.correct, Total: quiz.total}
				if reward != nil {
					summary.Reward = *reward
				}
				if stats, err := h.service.Stats(player); err == nil {
					summary.Stats = stats
				}
				quiz.pending = app.Schedule(h.revealDelay, func() {
					trySend(outboundMessage[any]{Type: "quizComplete", Payload: summary})
				})
				continue
			}

			index, total := quiz.index, quiz.total
			quiz.pending = app.Schedule(h.revealDelay, func() {
				next, err := h.service.CurrentQuestion(player)
				if err != nil {
					return
				}
				pushQuestion(index, total, false, next)
			})

		case "lessons":
			var payload lessonsPayload
			if len(inbound.Payload) > 0 {
				if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
					trySend(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid lessons payload"}})
					continue
				}
			}
			lessons, err := h.service.Lessons(r.Context(), payload.Tag, payload.Query)
			if err != nil {
				trySend(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}})
				continue
			}
			trySend(outboundMessage[any]{Type: "lessons", Payload: lessons})

		case "stats":
			stats, err := h.service.Stats(player)
			if err != nil {
				trySend(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}})
				continue
			}
			trySend(outboundMessage[any]{Type: "stats", Payload: stats})

		case "leaderboard":
			rows, err := h.service.Leaderboard(player)
			if err != nil {
				trySend(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}})
				continue
			}
			trySend(outboundMessage[any]{Type: "leaderboard", Payload: rows})

		case "addEntry":
			var payload addEntryPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				trySend(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid addEntry payload"}})
				continue
			}
			if err := h.service.AddLeaderboardEntry(r.Context(), player, payload.Name, payload.Coins); err != nil {
				trySend(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}})
				continue
			}
			rows, err := h.service.Leaderboard(player)
			if err != nil {
				trySend(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}})
				continue
			}
			trySend(outboundMessage[any]{Type: "leaderboard", Payload: rows})

		case "rename":
			var payload renamePayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				trySend(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid rename payload"}})
				continue
			}
			stats, err := h.service.Rename(r.Context(), player, payload.Name)
			if err != nil {
				trySend(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}})
				continue
			}
			player = stats.Name
			trySend(outboundMessage[any]{Type: "stats", Payload: stats})

		case "simulate":
			var payload simulatePayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				trySend(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid simulate payload"}})
				continue
			}
			projection, err := h.service.Invest(r.Context(), player, payload.Years)
			if err != nil {
				trySend(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}})
				continue
			}
			trySend(outboundMessage[any]{Type: "projection", Payload: projection})

		case "resetScenario":
			if err := h.service.ResetScenario(player); err != nil {
				trySend(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}})
			}

		case "reset":
			quiz.pending.Cancel()
			if err := h.service.Reset(r.Context(), player); err != nil {
				trySend(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}})
				continue
			}
			trySend(outboundMessage[any]{Type: "resetDone", Payload: struct{}{}})

		default:
			trySend(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}})
		}
	}

	quiz.pending.Cancel()
	h.service.AbandonSession(player)
	close(closeSignals)
	<-writerDone
}
