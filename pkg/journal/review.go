package journal

import (
	"math"
	"time"
)

// Tier classifies weekly activity for the review encouragement.
type Tier string

const (
	TierAchieved  Tier = "achieved"
	TierExcellent Tier = "excellent"
	TierSteady    Tier = "steady"
	TierStarted   Tier = "started"
	TierNone      Tier = "none"
)

// Message returns the encouragement shown for the tier.
func (t Tier) Message() string {
	switch t {
	case TierAchieved:
		return "Goal reached, congratulations!"
	case TierExcellent:
		return "Great pace. Keep it up."
	case TierSteady:
		return "Going well. It is adding up steadily."
	case TierStarted:
		return "You learned something this week. A slightly faster pace brings the goal closer."
	default:
		return "Nothing recorded this week yet. Start with a small step."
	}
}

const week = 7 * 24 * time.Hour

// QuestionFill is the share of entries answering one question.
type QuestionFill struct {
	QuestionID string `json:"questionId"`
	Label      string `json:"label"`
	Percent    int    `json:"percent"`
}

// Review is the weekly review snapshot.
type Review struct {
	WeekStart      time.Time      `json:"weekStart"`
	WeekEnd        time.Time      `json:"weekEnd"`
	ThisWeek       []Entry        `json:"thisWeek"`
	Total          int            `json:"total"`
	Goal           int            `json:"goal"`
	Percent        int            `json:"percent"`
	Weeks          int            `json:"weeks"`
	AveragePerWeek float64        `json:"averagePerWeek"`
	Remaining      int            `json:"remaining"`
	WeeksNeeded    int            `json:"weeksNeeded"`
	Tier           Tier           `json:"tier"`
	Fill           []QuestionFill `json:"fill"`
}

// WeekRange returns Monday 00:00 and Sunday 23:59:59.999 of the week
// containing now, in now's location.
func WeekRange(now time.Time) (start, end time.Time) {
	offset := (int(now.Weekday()) + 6) % 7
	y, m, d := now.Date()
	start = time.Date(y, m, d-offset, 0, 0, 0, 0, now.Location())
	end = time.Date(y, m, d-offset+6, 23, 59, 59, int(999*time.Millisecond), now.Location())
	return start, end
}

// BuildReview computes the weekly review of entries against goal at time now.
func BuildReview(entries []Entry, goal int, now time.Time) Review {
	goal = max(goal, 1)
	start, end := WeekRange(now)
	total := len(entries)

	r := Review{
		WeekStart: start,
		WeekEnd:   end,
		ThisWeek:  []Entry{},
		Total:     total,
		Goal:      goal,
		Percent:   int(math.Round(float64(total) / float64(goal) * 100)),
		Remaining: max(goal-total, 0),
	}

	first := now
	for _, e := range entries {
		if !e.Date.Before(start) && !e.Date.After(end) {
			r.ThisWeek = append(r.ThisWeek, e)
		}
		if e.Date.Before(first) {
			first = e.Date
		}
	}

	elapsed := now.Sub(first)
	r.Weeks = max(1, int(math.Ceil(float64(elapsed)/float64(week))))
	r.AveragePerWeek = math.Round(float64(total)/float64(r.Weeks)*10) / 10
	if r.Remaining > 0 {
		r.WeeksNeeded = int(math.Ceil(float64(r.Remaining) / math.Max(r.AveragePerWeek, 0.1)))
	}

	switch n := len(r.ThisWeek); {
	case total >= goal:
		r.Tier = TierAchieved
	case n >= 5:
		r.Tier = TierExcellent
	case n >= 3:
		r.Tier = TierSteady
	case n >= 1:
		r.Tier = TierStarted
	default:
		r.Tier = TierNone
	}

	r.Fill = make([]QuestionFill, 0, len(questions))
	for _, q := range questions {
		fill := QuestionFill{QuestionID: q.ID, Label: q.Label}
		if total > 0 {
			filled := 0
			for _, e := range entries {
				if e.Answer(q.ID) != "" {
					filled++
				}
			}
			fill.Percent = int(math.Round(float64(filled) / float64(total) * 100))
		}
		r.Fill = append(r.Fill, fill)
	}
	return r
}
