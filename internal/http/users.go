package httpapi

import (
	"errors"
	"net/http"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/dateutil"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/ingest"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/user"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/validation"
)

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	users, err := h.users.List(ctx)
	if err != nil {
		h.log(r).Error("list users failed", "err", err)
		writeError(w, http.StatusInternalServerError, "failed to list users")
		return
	}
	if users == nil {
		users = []user.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	u, err := h.users.GetByID(ctx, id)
	if errors.Is(err, user.ErrNotFound) {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		h.log(r).Error("get user failed", "user_id", id, "err", err)
		writeError(w, http.StatusInternalServerError, "failed to get user")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	body, err := decodeObject(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if missing := validation.MissingFields(body, ingest.UserFields); len(missing) > 0 {
		writeError(w, http.StatusBadRequest, missingFieldsMessage(missing))
		return
	}
	if !validation.IsValidEmail(ingest.String(body["email"])) {
		writeError(w, http.StatusBadRequest, "Invalid email address")
		return
	}

	u, err := ingest.Users().Convert(0, ingest.Row(body), h.now())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	created, err := h.users.Create(ctx, u)
	if errors.Is(err, user.ErrConflict) {
		writeError(w, http.StatusConflict, "Username already exists")
		return
	}
	if err != nil {
		h.log(r).Error("create user failed", "username", u.Username, "err", err)
		writeError(w, http.StatusInternalServerError, "failed to create user")
		return
	}
	h.log(r).Info("user created", "user_id", created.ID)
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	p, err := h.users.GetProfile(ctx, id)
	if errors.Is(err, user.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Profile not found")
		return
	}
	if err != nil {
		h.log(r).Error("get profile failed", "user_id", id, "err", err)
		writeError(w, http.StatusInternalServerError, "failed to get profile")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

type profileRequest struct {
	Bio         string `json:"bio"`
	AvatarURL   string `json:"avatar_url"`
	PhoneNumber string `json:"phone_number"`
	DateOfBirth string `json:"date_of_birth"`
	Location    string `json:"location"`
}

func (h *Handler) PutProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var req profileRequest
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	p := user.Profile{
		UserID:      id,
		Bio:         req.Bio,
		AvatarURL:   req.AvatarURL,
		PhoneNumber: req.PhoneNumber,
		Location:    req.Location,
	}
	if req.DateOfBirth != "" {
		dob, err := dateutil.Parse(req.DateOfBirth)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date_of_birth '"+req.DateOfBirth+"'")
			return
		}
		p.DateOfBirth = &dob
	}
	if err := p.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	err := h.users.SaveProfile(ctx, p)
	if errors.Is(err, user.ErrNotFound) {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		h.log(r).Error("save profile failed", "user_id", id, "err", err)
		writeError(w, http.StatusInternalServerError, "failed to save profile")
		return
	}
	writeJSON(w, http.StatusOK, p)
}
