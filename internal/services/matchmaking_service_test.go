package services

import (
	"context"
	"testing"

	"github.com/BingoAIHelper/bingo-backend/internal/models"
)

type stubCoachLister struct {
	coaches []models.CoachProfile
}

func (s *stubCoachLister) ListAll(_ context.Context) ([]models.CoachProfile, error) {
	return s.coaches, nil
}

func TestGetMatchedCoachesSortsByScoreThenRating(t *testing.T) {
	interests := []string{"interview_prep", "resume_writing"}
	industries := []string{"technology"}
	budget := 60.0
	service := NewMatchmakingService(&stubCoachLister{
		coaches: []models.CoachProfile{
			buildCoachProfile(21, []string{"interview_prep", "resume_review"}, []string{"technology"}, 4.8, 6, 55, []string{"CPRW"}),
			buildCoachProfile(22, []string{"resume_writing"}, []string{"technology"}, 4.9, 2, 70, nil),
			buildCoachProfile(23, []string{"public_speaking"}, nil, 5.0, 10, 40, []string{"ICF"}),
		},
	})

	matched, err := service.GetMatchedCoaches(context.Background(), &models.SeekerProfile{
		JobInterests:        &interests,
		PreferredIndustries: &industries,
		MaxHourlyRate:       &budget,
	}, 3)
	if err != nil {
		t.Fatalf("GetMatchedCoaches: %v", err)
	}

	if got := len(matched); got != 3 {
		t.Fatalf("expected 3 coaches, got %d", got)
	}
	if matched[0].UserID != 21 || matched[0].MatchScore != 100 {
		t.Fatalf("expected coach 21 with score 100 first, got coach %d with score %d", matched[0].UserID, matched[0].MatchScore)
	}
	if matched[1].UserID != 22 || matched[1].MatchScore != 70 {
		t.Fatalf("expected coach 22 with score 70 second, got coach %d with score %d", matched[1].UserID, matched[1].MatchScore)
	}
	if matched[2].UserID != 23 || matched[2].MatchScore != 60 {
		t.Fatalf("expected coach 23 with score 60 third, got coach %d with score %d", matched[2].UserID, matched[2].MatchScore)
	}
}

func TestGetMatchedCoachesAppliesLimit(t *testing.T) {
	interests := []string{"job_search"}
	service := NewMatchmakingService(&stubCoachLister{
		coaches: []models.CoachProfile{
			buildCoachProfile(1, []string{"job_search"}, nil, 4.5, 5, 60, nil),
			buildCoachProfile(2, []string{"public_speaking"}, nil, 4.9, 7, 50, nil),
		},
	})

	matched, err := service.GetMatchedCoaches(context.Background(), &models.SeekerProfile{JobInterests: &interests}, 1)
	if err != nil {
		t.Fatalf("GetMatchedCoaches: %v", err)
	}
	if got := len(matched); got != 1 {
		t.Fatalf("expected 1 coach, got %d", got)
	}
	if matched[0].UserID != 1 {
		t.Fatalf("expected top coach to be 1, got %d", matched[0].UserID)
	}
}

func TestGetMatchedCoachesBudgetBonusRequiresPreference(t *testing.T) {
	interests := []string{"job_search"}
	service := NewMatchmakingService(&stubCoachLister{
		coaches: []models.CoachProfile{
			buildCoachProfile(1, []string{"job_search"}, nil, 4.2, 4, 40, nil),
			buildCoachProfile(2, []string{"job_search"}, nil, 4.2, 4, 80, nil),
		},
	})

	budget := 50.0
	matched, err := service.GetMatchedCoaches(context.Background(), &models.SeekerProfile{
		JobInterests:  &interests,
		MaxHourlyRate: &budget,
	}, 2)
	if err != nil {
		t.Fatalf("GetMatchedCoaches: %v", err)
	}

	if matched[0].MatchScore != matched[1].MatchScore+15 {
		t.Fatalf("expected budget bonus gap of 15, got %d vs %d", matched[0].MatchScore, matched[1].MatchScore)
	}
}

func TestInterestAliasesHandleDocumentedSynonyms(t *testing.T) {
	interests := []string{"interviewing", "resume_review"}
	service := NewMatchmakingService(&stubCoachLister{
		coaches: []models.CoachProfile{
			buildCoachProfile(1, []string{"mock_interviews", "career_documents"}, nil, 0, 0, 999, nil),
		},
	})

	matched, err := service.GetMatchedCoaches(context.Background(), &models.SeekerProfile{
		JobInterests: &interests,
	}, 1)
	if err != nil {
		t.Fatalf("GetMatchedCoaches: %v", err)
	}

	if got := matched[0].MatchScore; got != 80 {
		t.Fatalf("expected synonym interest match score 80, got %d", got)
	}
}

func TestScoreCoachCountsSpecialties(t *testing.T) {
	interests := []string{"workplace_accommodations"}
	service := NewMatchmakingService(&stubCoachLister{})

	coach := buildCoachProfile(1, nil, nil, 0, 0, 999, nil)
	specialties := []string{"disability_inclusion"}
	coach.Specialties = &specialties

	score := service.ScoreCoach(&models.SeekerProfile{JobInterests: &interests}, &coach)
	if score != 40 {
		t.Fatalf("expected specialty match score 40, got %d", score)
	}
}

func buildCoachProfile(
	userID int64,
	expertise []string,
	industries []string,
	rating float64,
	experience int,
	rate float64,
	certs []string,
) models.CoachProfile {
	return models.CoachProfile{
		UserID:             userID,
		Expertise:          &expertise,
		Industries:         &industries,
		Rating:             &rating,
		ExperienceYears:    &experience,
		HourlyRate:         &rate,
		Certifications:     &certs,
		OnboardingComplete: true,
	}
}
