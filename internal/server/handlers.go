package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/vanshika/socialgraph/internal/service"
)

// APIHandlers exposes HTTP handlers for the REST API.
type APIHandlers struct {
	logger  *slog.Logger
	service *service.GraphService
}

// NewAPIHandlers constructs an APIHandlers instance.
func NewAPIHandlers(logger *slog.Logger, svc *service.GraphService) *APIHandlers {
	return &APIHandlers{
		logger:  logger,
		service: svc,
	}
}

func (h *APIHandlers) handleUsers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.createUser(w, r)
	case http.MethodGet:
		h.listUsers(w, r)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

func (h *APIHandlers) handleConnections(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var payload service.ConnectionInput
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	conn, err := h.service.AddConnection(r.Context(), payload)
	if err != nil {
		h.failure(w, r, err, "failed to persist connection", "fromUserId", payload.FromUserID, "toUserId", payload.ToUserID)
		return
	}
	respondJSON(w, http.StatusCreated, newConnectionResponse(conn))
}

// handleUserResource serves /users/{id}/{resource}.
func (h *APIHandlers) handleUserResource(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/users/"), "/")
	idx := strings.LastIndex(rest, "/")
	if idx <= 0 {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	userID, resource := rest[:idx], rest[idx+1:]

	switch resource {
	case "connections":
		conns := h.service.Connections(userID)
		resp := make([]connectionResponse, 0, len(conns))
		for _, c := range conns {
			resp = append(resp, newConnectionResponse(c))
		}
		respondJSON(w, http.StatusOK, resp)
	case "followers":
		respondJSON(w, http.StatusOK, followersResponse{
			UserID:    userID,
			Followers: nonNil(h.service.Followers(userID)),
		})
	case "recommendations":
		h.recommendations(w, r, userID)
	case "influence":
		score, err := h.service.Influence(userID)
		if err != nil {
			h.failure(w, r, err, "failed to score influence", "userId", userID)
			return
		}
		respondJSON(w, http.StatusOK, newInfluenceResponse(score))
	case "community":
		community, ok, err := h.service.UserCommunity(userID)
		if err != nil {
			h.failure(w, r, err, "failed to resolve community", "userId", userID)
			return
		}
		if !ok {
			writeError(w, http.StatusNotFound, "user has no community")
			return
		}
		respondJSON(w, http.StatusOK, newCommunityResponse(community))
	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}

func (h *APIHandlers) handleShortestPath(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	query := r.URL.Query()
	path, found, err := h.service.ShortestPath(query.Get("from"), query.Get("to"))
	if err != nil {
		h.failure(w, r, err, "failed to compute shortest path")
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "no path between users")
		return
	}
	respondJSON(w, http.StatusOK, newPathResponse(path))
}

func (h *APIHandlers) handleInfluenceRanking(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	var order []string
	if v := r.URL.Query().Get("users"); v != "" {
		order = strings.Split(v, ",")
	}
	ranked := h.service.RankInfluence(order)
	resp := make([]influenceResponse, 0, len(ranked))
	for _, s := range ranked {
		resp = append(resp, newInfluenceResponse(s))
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *APIHandlers) handleCommunities(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	communities := h.service.Communities()
	resp := make([]communityResponse, 0, len(communities))
	for _, c := range communities {
		resp = append(resp, newCommunityResponse(c))
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *APIHandlers) handleReload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	stats, err := h.service.Reload(r.Context())
	if errors.Is(err, service.ErrNoStore) {
		writeError(w, http.StatusServiceUnavailable, "no graph database configured")
		return
	}
	if err != nil {
		h.failure(w, r, err, "failed to reload snapshot")
		return
	}
	respondJSON(w, http.StatusOK, reloadResponse{Status: "ok", Stats: newStatsResponse(stats)})
}

func (h *APIHandlers) createUser(w http.ResponseWriter, r *http.Request) {
	var payload service.UserInput
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.service.AddUser(r.Context(), payload)
	if err != nil {
		h.failure(w, r, err, "failed to persist user", "userId", payload.ID)
		return
	}
	respondJSON(w, http.StatusCreated, newUserResponse(user))
}

func (h *APIHandlers) listUsers(w http.ResponseWriter, _ *http.Request) {
	users := h.service.Users()
	resp := listUsersResponse{
		Items: make([]userResponse, 0, len(users)),
		Stats: newStatsResponse(h.service.Stats()),
	}
	for _, u := range users {
		resp.Items = append(resp.Items, newUserResponse(u))
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *APIHandlers) recommendations(w http.ResponseWriter, r *http.Request, userID string) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	recs, err := h.service.Recommendations(userID, limit)
	if err != nil {
		h.failure(w, r, err, "failed to compute recommendations", "userId", userID)
		return
	}
	resp := make([]recommendationResponse, 0, len(recs))
	for _, rec := range recs {
		resp = append(resp, newRecommendationResponse(rec))
	}
	respondJSON(w, http.StatusOK, resp)
}

// failure maps validation errors to 400 and logs everything else as a 500.
func (h *APIHandlers) failure(w http.ResponseWriter, r *http.Request, err error, msg string, attrs ...any) {
	if errors.Is(err, service.ErrInvalidInput) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	attrs = append(attrs, "error", err, "request_id", requestIDFromContext(r.Context()))
	h.logger.Error(msg, attrs...)
	writeError(w, http.StatusInternalServerError, msg)
}

func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return errors.New("request body is required")
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return err
	}
	return nil
}

func writeError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{
		"error": msg,
	})
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}
