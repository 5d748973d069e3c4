package services

import (
	"context"
	"sort"
	"strings"

	"github.com/BingoAIHelper/bingo-backend/internal/models"
)

type CoachLister interface {
	ListAll(ctx context.Context) ([]models.CoachProfile, error)
}

type MatchmakingService struct {
	coachRepo CoachLister
}

func NewMatchmakingService(coachRepo CoachLister) *MatchmakingService {
	return &MatchmakingService{coachRepo: coachRepo}
}

func (s *MatchmakingService) GetMatchedCoaches(
	ctx context.Context,
	seeker *models.SeekerProfile,
	limit int,
) ([]models.CoachWithScore, error) {
	coaches, err := s.coachRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]models.CoachWithScore, 0, len(coaches))
	for _, coach := range coaches {
		matched = append(matched, models.CoachWithScore{
			CoachProfile: coach,
			MatchScore:   s.ScoreCoach(seeker, &coach),
		})
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].MatchScore == matched[j].MatchScore {
			return floatValue(matched[i].Rating) > floatValue(matched[j].Rating)
		}
		return matched[i].MatchScore > matched[j].MatchScore
	})

	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}

	return matched, nil
}

// ScoreCoach rates how well a coach fits a seeker on a 0-100 scale. Interest
// overlap dominates; rating, experience, certifications, and budget fit add
// smaller bonuses.
func (s *MatchmakingService) ScoreCoach(seeker *models.SeekerProfile, coach *models.CoachProfile) int {
	score := 0
	interestTags := interestAliases(seeker)
	coachSkills := normalizeValues(coach.Expertise)
	for _, value := range sliceValue(coach.Specialties) {
		if key := normalize(value); key != "" {
			coachSkills[key] = struct{}{}
		}
	}

	for _, aliases := range interestTags {
		for _, alias := range aliases {
			if _, ok := coachSkills[alias]; ok {
				score += 40
				break
			}
		}
	}

	if industriesOverlap(seeker, coach) {
		score += 10
	}
	if floatValue(coach.Rating) > 4.0 {
		score += 20
	}
	if intValue(coach.ExperienceYears) > 3 {
		score += 15
	}
	if len(sliceValue(coach.Certifications)) > 0 {
		score += 10
	}
	if budget := floatValue(seekerBudget(seeker)); budget > 0 && floatValue(coach.HourlyRate) <= budget {
		score += 15
	}

	if score > 100 {
		score = 100
	}
	return score
}

func interestAliases(seeker *models.SeekerProfile) map[string][]string {
	interests := sliceValue(nil)
	if seeker != nil {
		interests = sliceValue(seeker.JobInterests)
	}

	mapped := make(map[string][]string, len(interests))
	for _, interest := range interests {
		switch normalize(interest) {
		case "resume_writing", "resume_review":
			mapped["resume_writing"] = []string{"resume_writing", "resume_review", "career_documents"}
		case "interview_prep", "interviewing":
			mapped["interview_prep"] = []string{"interview_prep", "interview_coaching", "mock_interviews"}
		case "career_change", "career_transition":
			mapped["career_change"] = []string{"career_change", "career_transition"}
		case "job_search":
			mapped["job_search"] = []string{"job_search", "job_search_strategy", "networking"}
		case "workplace_accommodations", "accessibility":
			mapped["workplace_accommodations"] = []string{"workplace_accommodations", "accessibility", "disability_inclusion"}
		default:
			if key := normalize(interest); key != "" {
				mapped[key] = []string{key}
			}
		}
	}

	return mapped
}

func industriesOverlap(seeker *models.SeekerProfile, coach *models.CoachProfile) bool {
	if seeker == nil {
		return false
	}
	coachIndustries := normalizeValues(coach.Industries)
	for _, industry := range sliceValue(seeker.PreferredIndustries) {
		if _, ok := coachIndustries[normalize(industry)]; ok {
			return true
		}
	}
	return false
}

func normalizeValues(values *[]string) map[string]struct{} {
	normalized := make(map[string]struct{})
	for _, value := range sliceValue(values) {
		if key := normalize(value); key != "" {
			normalized[key] = struct{}{}
		}
	}
	return normalized
}

func normalize(value string) string {
	value = strings.TrimSpace(strings.ToLower(value))
	value = strings.ReplaceAll(value, " ", "_")
	value = strings.ReplaceAll(value, "-", "_")
	return value
}

func sliceValue(values *[]string) []string {
	if values == nil {
		return nil
	}
	return *values
}

func floatValue(value *float64) float64 {
	if value == nil {
		return 0
	}
	return *value
}

func intValue(value *int) int {
	if value == nil {
		return 0
	}
	return *value
}

func seekerBudget(seeker *models.SeekerProfile) *float64 {
	if seeker == nil {
		return nil
	}
	return seeker.MaxHourlyRate
}
