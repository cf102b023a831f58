package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/priyal/unimatch/backend/internal/domain"
	"github.com/priyal/unimatch/backend/internal/errs"
	"github.com/priyal/unimatch/backend/internal/service"
)

// APIHandlers exposes HTTP handlers for the REST API.
type APIHandlers struct {
	logger           *slog.Logger
	service          *service.MatchService
	minCompatibility float64
}

// NewAPIHandlers constructs an APIHandlers instance. minCompatibility is the
// score floor applied to match listings when the client does not override it.
func NewAPIHandlers(logger *slog.Logger, svc *service.MatchService, minCompatibility float64) *APIHandlers {
	return &APIHandlers{
		logger:           logger,
		service:          svc,
		minCompatibility: minCompatibility,
	}
}

type registerUserRequest struct {
	ID         string `json:"id,omitempty"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Age        int    `json:"age"`
	Gender     string `json:"gender"`
	University string `json:"university"`
	Career     string `json:"career,omitempty"`
	Semester   string `json:"semester,omitempty"`
	Instagram  string `json:"instagram,omitempty"`
}

type userResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Age        int    `json:"age"`
	Gender     string `json:"gender"`
	University string `json:"university"`
	Career     string `json:"career,omitempty"`
	Semester   string `json:"semester,omitempty"`
	Instagram  string `json:"instagram,omitempty"`
	IsActive   bool   `json:"isActive"`
}

type profileResponse struct {
	User          userResponse          `json:"user"`
	Interests     map[string][]string   `json:"interests"`
	Questionnaire *questionnaireAnswers `json:"questionnaire,omitempty"`
	CompletedAt   string                `json:"completedAt,omitempty"`
}

type questionnaireAnswers struct {
	RelationshipValues string `json:"relationshipValues"`
	WeekendPreference  string `json:"weekendPreference"`
	ConversationStyle  string `json:"conversationStyle"`
	SocialLife         string `json:"socialLife"`
	RelationshipGoal   string `json:"relationshipGoal"`
}

type questionnaireRequest struct {
	Music         []string `json:"music"`
	Entertainment []string `json:"entertainment"`
	Sports        []string `json:"sports"`
	Hobbies       []string `json:"hobbies"`

	RelationshipValues string `json:"relationshipValues"`
	WeekendPreference  string `json:"weekendPreference"`
	ConversationStyle  string `json:"conversationStyle"`
	SocialLife         string `json:"socialLife"`
	RelationshipGoal   string `json:"relationshipGoal"`
}

type updateProfileRequest struct {
	Name      *string `json:"name,omitempty"`
	Career    *string `json:"career,omitempty"`
	Semester  *string `json:"semester,omitempty"`
	Instagram *string `json:"instagram,omitempty"`
	Age       *int    `json:"age,omitempty"`
}

type rankedMatchResponse struct {
	User                    userResponse        `json:"user"`
	Interests               map[string][]string `json:"interests"`
	CompatibilityScore      float64             `json:"compatibilityScore"`
	CompatibilityPercentage int                 `json:"compatibilityPercentage"`
}

type matchesResponse struct {
	Matches []rankedMatchResponse `json:"matches"`
	Total   int                   `json:"total"`
}

type interestResponse struct {
	TargetID      string `json:"targetId"`
	IsMutualMatch bool   `json:"isMutualMatch"`
}

type mutualMatchResponse struct {
	User      userResponse        `json:"user"`
	Interests map[string][]string `json:"interests"`
	MatchedAt string              `json:"matchedAt,omitempty"`
}

type statsResponse struct {
	TotalCandidates      int     `json:"totalCandidates"`
	UserHasProfile       bool    `json:"userHasProfile"`
	UserInterestsCount   int     `json:"userInterestsCount"`
	AverageCompatibility float64 `json:"averageCompatibility"`
}

func (h *APIHandlers) registerUser(w http.ResponseWriter, r *http.Request) {
	var req registerUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	user, err := h.service.RegisterUser(r.Context(), service.Registration{
		ID:         req.ID,
		Name:       req.Name,
		Email:      req.Email,
		Age:        req.Age,
		Gender:     req.Gender,
		University: req.University,
		Career:     req.Career,
		Semester:   req.Semester,
		Instagram:  req.Instagram,
	})
	if err != nil {
		h.respondError(w, r, err, "failed to register user")
		return
	}

	respondJSON(w, http.StatusCreated, toUserResponse(user))
}

func (h *APIHandlers) getProfile(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")

	profile, err := h.service.GetUserProfile(r.Context(), userID)
	if err != nil {
		h.respondError(w, r, err, "failed to fetch profile")
		return
	}

	response := profileResponse{
		User:      toUserResponse(profile.User),
		Interests: toInterestsResponse(profile.Interests),
	}
	if profile.Profile != nil {
		response.Questionnaire = &questionnaireAnswers{
			RelationshipValues: profile.Profile.RelationshipValues,
			WeekendPreference:  profile.Profile.WeekendPreference,
			ConversationStyle:  profile.Profile.ConversationStyle,
			SocialLife:         profile.Profile.SocialLife,
			RelationshipGoal:   profile.Profile.RelationshipGoal,
		}
		response.CompletedAt = formatTimePtr(profile.Profile.CompletedAt)
	}

	respondJSON(w, http.StatusOK, response)
}

func (h *APIHandlers) updateProfile(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	err := h.service.UpdateProfile(r.Context(), userID, service.ProfileUpdates{
		Name:      req.Name,
		Career:    req.Career,
		Semester:  req.Semester,
		Instagram: req.Instagram,
		Age:       req.Age,
	})
	if err != nil {
		h.respondError(w, r, err, "failed to update profile")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"updated": true})
}

func (h *APIHandlers) deactivateUser(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")

	if err := h.service.DeactivateUser(r.Context(), userID); err != nil {
		h.respondError(w, r, err, "failed to deactivate user")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"deactivated": true})
}

func (h *APIHandlers) saveQuestionnaire(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")

	var req questionnaireRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	err := h.service.SaveQuestionnaire(r.Context(), userID, service.QuestionnaireAnswers{
		Music:              req.Music,
		Entertainment:      req.Entertainment,
		Sports:             req.Sports,
		Hobbies:            req.Hobbies,
		RelationshipValues: req.RelationshipValues,
		WeekendPreference:  req.WeekendPreference,
		ConversationStyle:  req.ConversationStyle,
		SocialLife:         req.SocialLife,
		RelationshipGoal:   req.RelationshipGoal,
	})
	if err != nil {
		h.respondError(w, r, err, "failed to save questionnaire")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"saved": true})
}

func (h *APIHandlers) findMatches(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	minScore := h.minCompatibility
	if v := r.URL.Query().Get("minCompatibility"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil || parsed < 0 || parsed > 1 {
			writeError(w, http.StatusBadRequest, "minCompatibility must be between 0 and 1")
			return
		}
		minScore = parsed
	}

	ranked, err := h.service.FindMatches(r.Context(), userID, limit)
	if err != nil {
		h.respondError(w, r, err, "failed to find matches")
		return
	}

	response := matchesResponse{Matches: []rankedMatchResponse{}}
	for _, match := range ranked {
		if match.CompatibilityScore < minScore {
			continue
		}
		response.Matches = append(response.Matches, rankedMatchResponse{
			User:                    toUserResponse(match.Candidate.User),
			Interests:               toInterestsResponse(match.Candidate.Interests),
			CompatibilityScore:      match.CompatibilityScore,
			CompatibilityPercentage: match.CompatibilityPercentage,
		})
	}
	response.Total = len(response.Matches)

	respondJSON(w, http.StatusOK, response)
}

func (h *APIHandlers) registerInterest(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")
	targetID := r.PathValue("targetId")

	result, err := h.service.RegisterInterest(r.Context(), userID, targetID)
	if err != nil {
		h.respondError(w, r, err, "failed to register interest")
		return
	}

	respondJSON(w, http.StatusOK, interestResponse{
		TargetID:      result.TargetID,
		IsMutualMatch: result.IsMutualMatch,
	})
}

func (h *APIHandlers) listMutualMatches(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")

	matches, err := h.service.ListMutualMatches(r.Context(), userID)
	if err != nil {
		h.respondError(w, r, err, "failed to list matches")
		return
	}

	response := make([]mutualMatchResponse, 0, len(matches))
	for _, match := range matches {
		response = append(response, mutualMatchResponse{
			User:      toUserResponse(match.User),
			Interests: toInterestsResponse(match.Interests),
			MatchedAt: formatTimePtr(match.MatchedAt),
		})
	}

	respondJSON(w, http.StatusOK, response)
}

func (h *APIHandlers) matchStats(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")

	stats, err := h.service.RecommendationStats(r.Context(), userID)
	if err != nil {
		h.respondError(w, r, err, "failed to compute stats")
		return
	}

	respondJSON(w, http.StatusOK, statsResponse{
		TotalCandidates:      stats.TotalCandidates,
		UserHasProfile:       stats.UserHasProfile,
		UserInterestsCount:   stats.UserInterestsCount,
		AverageCompatibility: stats.AverageCompatibility,
	})
}

// respondError maps domain error kinds to HTTP statuses. Store failures are
// logged with the underlying cause but never leak it to the client.
func (h *APIHandlers) respondError(w http.ResponseWriter, r *http.Request, err error, logMsg string) {
	kind := errs.KindOf(err)
	status := statusFromKind(kind)

	if status >= http.StatusInternalServerError {
		h.logger.Error(logMsg, "error", err, "path", r.URL.Path)
		writeError(w, status, logMsg)
		return
	}
	writeError(w, status, errs.DetailOf(err))
}

func statusFromKind(kind errs.Kind) int {
	switch kind {
	case errs.KindNotFound:
		return http.StatusNotFound
	case errs.KindValidation:
		return http.StatusBadRequest
	case errs.KindIncompleteProfile:
		return http.StatusUnprocessableEntity
	case errs.KindConflict:
		return http.StatusConflict
	case errs.KindStoreUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func toUserResponse(user domain.User) userResponse {
	return userResponse{
		ID:         user.ID,
		Name:       user.Name,
		Email:      user.Email,
		Age:        user.Age,
		Gender:     string(user.Gender),
		University: user.University,
		Career:     user.Career,
		Semester:   user.Semester,
		Instagram:  user.Instagram,
		IsActive:   user.IsActive,
	}
}

func toInterestsResponse(interests domain.Interests) map[string][]string {
	out := make(map[string][]string, len(interests))
	for category, names := range interests {
		out[string(category)] = names
	}
	return out
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
