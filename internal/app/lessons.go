package app

import (
	"strings"

	"brainbank-service/internal/domain"
)

// FilterLessons narrows the lesson list by tag ("all" or empty keeps
// everything) and a case-insensitive substring query over title and
// blurb. An empty result is a valid outcome.
func FilterLessons(lessons []domain.Lesson, tag, query string) []domain.Lesson {
	query = strings.ToLower(query)
	matched := make([]domain.Lesson, 0, len(lessons))
	for _, lesson := range lessons {
		if tag != "" && tag != "all" && lesson.Tag != tag {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(lesson.Title), query) &&
			!strings.Contains(strings.ToLower(lesson.Blurb), query) {
			continue
		}
		matched = append(matched, lesson)
	}
	return matched
}
