package app

import "brainbank-service/internal/domain"

// QuizSession tracks one playthrough: a fixed question queue, the
// current position, and the running score. There is at most one active
// session per player; starting a new quiz discards the old one.
//
// Invariants: 0 <= position <= len(queue), correctCount <= position.
type QuizSession struct {
	queue        []domain.QuestionItem
	position     int
	correctCount int
	isDaily      bool
}

// NewQuizSession constructs a session over a non-empty question queue.
func NewQuizSession(questions []domain.QuestionItem, isDaily bool) (*QuizSession, error) {
	if len(questions) == 0 {
		return nil, domain.ErrEmptyCatalog
	}
	return &QuizSession{queue: questions, isDaily: isDaily}, nil
}

// Current returns the question awaiting an answer, or ErrSessionComplete
// once every question has been answered.
func (s *QuizSession) Current() (domain.QuestionItem, error) {
	if s.Completed() {
		return domain.QuestionItem{}, domain.ErrSessionComplete
	}
	return s.queue[s.position], nil
}

// Submit scores choice against the current question. An out-of-range
// choice fails with ErrInvalidChoice and changes nothing. A valid
// submission always advances the position, right or wrong.
func (s *QuizSession) Submit(choice int) (domain.AnswerFeedback, error) {
	if s.Completed() {
		return domain.AnswerFeedback{}, domain.ErrSessionComplete
	}
	question := s.queue[s.position]
	if choice < 0 || choice >= len(question.Options) {
		return domain.AnswerFeedback{}, domain.ErrInvalidChoice
	}

	correct := choice == question.CorrectIndex
	if correct {
		s.correctCount++
	}
	s.position++

	return domain.AnswerFeedback{
		Correct:      correct,
		CorrectIndex: question.CorrectIndex,
		Explanation:  question.Explanation,
		Finished:     s.Completed(),
	}, nil
}

// Completed reports whether every question has been answered.
func (s *QuizSession) Completed() bool {
	return s.position == len(s.queue)
}

// CorrectCount returns the number of correct answers so far.
func (s *QuizSession) CorrectCount() int { return s.correctCount }

// Position returns how many questions have been answered.
func (s *QuizSession) Position() int { return s.position }

// Len returns the fixed queue length.
func (s *QuizSession) Len() int { return len(s.queue) }

// IsDaily reports whether this is the daily-challenge variant.
func (s *QuizSession) IsDaily() bool { return s.isDaily }
