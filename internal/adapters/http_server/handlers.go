package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"jend_services/internal/app"
	"jend_services/internal/auth"
	"jend_services/internal/domain"
)

type Handlers struct {
	Accounts  *app.AccountService
	Proposals *app.ProposalService
	Reviews   *app.ReviewService
	Reset     *app.PasswordResetService
	Tokens    *auth.TokenIssuer

	// DevMode echoes issued reset codes in the forgot-password response.
	DevMode   bool
	AuthRPS   float64
	AuthBurst int
}

const defaultLocation = "36.81,10.17"

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Route("/api/auth", func(r chi.Router) {
		r.Use(RateLimit(h.AuthRPS, h.AuthBurst))
		r.Post("/register", h.register)
		r.Post("/login", h.login)
		r.Post("/forgot-password", h.forgotPassword)
		r.Post("/verify-reset-code", h.verifyResetCode)
		r.Post("/reset-password", h.resetPassword)
		r.With(Auth(h.Tokens)).Get("/me", h.me)
	})

	s.mux.Route("/api/accounts", func(r chi.Router) {
		r.Use(Auth(h.Tokens))
		r.Put("/{id}", h.updateAccount)
		r.Put("/{id}/password", h.updateAccountPassword)
	})

	s.mux.Route("/api/services", func(r chi.Router) {
		r.Get("/", h.listServices)
		r.Get("/{id}/reviews", h.listServiceReviews)

		r.Group(func(pr chi.Router) {
			pr.Use(Auth(h.Tokens))
			pr.Post("/", h.createService)
			pr.Put("/{id}", h.updateService)
			pr.Delete("/{id}", h.deleteService)
			pr.Post("/{id}/vote", h.voteService)
			pr.Post("/{id}/review", h.addReview)
			pr.Get("/{id}/has-reviewed", h.hasReviewed)
		})
	})

	s.mux.With(Auth(h.Tokens)).Delete("/api/reviews/{id}", h.deleteReview)
}

// ---- response plumbing ----

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// mapError translates service errors into problem responses.
func mapError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, domain.ErrDuplicateReview),
		errors.Is(err, domain.ErrInvalidResetCode),
		errors.Is(err, domain.ErrEmailTaken):
		writeProblem(w, http.StatusBadRequest, "Bad Request", err.Error())
	case errors.Is(err, domain.ErrBadCredentials):
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", err.Error())
	default:
		log.Error().Err(err).Msg("request failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "request body must be valid JSON")
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a positive number")
		return 0, false
	}
	return id, true
}

// ---- wire types ----

type accountJSON struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

func toAccountJSON(a domain.Account) accountJSON {
	return accountJSON{ID: a.ID, Name: a.Name, Email: a.Email, CreatedAt: a.CreatedAt}
}

type proposalJSON struct {
	ID              int64      `json:"id"`
	Name            string     `json:"name"`
	Description     string     `json:"description"`
	Location        string     `json:"location"`
	Votes           int        `json:"votes"`
	ProposedByID    *int64     `json:"proposedById,omitempty"`
	OwnerEmail      *string    `json:"ownerEmail,omitempty"`
	EndDate         *time.Time `json:"endDate,omitempty"`
	ReservationLink *string    `json:"reservationLink,omitempty"`
	Delegation      *string    `json:"delegation,omitempty"`
	Sector          *string    `json:"sector,omitempty"`
	Provider        *string    `json:"provider,omitempty"`
	Institution     *string    `json:"institution,omitempty"`
	Category        *string    `json:"category,omitempty"`
	AverageRating   float64    `json:"averageRating"`
	ReviewCount     int        `json:"reviewCount"`
}

func toProposalJSON(sp domain.ServiceProposal) proposalJSON {
	return proposalJSON{
		ID: sp.ID, Name: sp.Name, Description: sp.Description, Location: sp.Location,
		Votes: sp.Votes, ProposedByID: sp.ProposedByID, OwnerEmail: sp.OwnerEmail,
		EndDate: sp.EndDate, ReservationLink: sp.ReservationLink, Delegation: sp.Delegation,
		Sector: sp.Sector, Provider: sp.Provider, Institution: sp.Institution,
		Category: sp.Category, AverageRating: sp.AverageRating, ReviewCount: sp.ReviewCount,
	}
}

type reviewJSON struct {
	ID          int64    `json:"id"`
	ServiceID   int64    `json:"serviceId"`
	ClientEmail string   `json:"clientEmail"`
	ClientName  string   `json:"clientName"`
	Provider    *string  `json:"provider,omitempty"`
	Rating      *float64 `json:"rating"`
	Comment     string   `json:"comment"`
	ReviewDate  string   `json:"reviewDate"`
	BookingFrom string   `json:"bookingStartDate"`
	BookingTo   string   `json:"bookingEndDate"`
}

func toReviewJSON(rv domain.Review) reviewJSON {
	return reviewJSON{
		ID: rv.ID, ServiceID: rv.ServiceID, ClientEmail: rv.ClientEmail,
		ClientName: rv.ClientName, Provider: rv.Provider, Rating: rv.Rating,
		Comment:    rv.Comment,
		ReviewDate: rv.ReviewDate.Format("2006-01-02"),
		BookingFrom: rv.BookingFrom.Format("2006-01-02"),
		BookingTo:   rv.BookingTo.Format("2006-01-02"),
	}
}

// ---- auth ----

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handlers) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "email and password are required")
		return
	}
	acc, err := h.Accounts.Create(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAccountJSON(acc))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token   string      `json:"token"`
	Account accountJSON `json:"account"`
}

func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decode(w, r, &req) {
		return
	}
	acc, err := h.Accounts.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		mapError(w, err)
		return
	}
	token, err := h.Tokens.Generate(acc.ID, acc.Email)
	if err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Token: token, Account: toAccountJSON(acc)})
}

func (h *Handlers) me(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFrom(r.Context())
	if !ok {
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	acc, err := h.Accounts.GetByEmail(r.Context(), claims.Email)
	if err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAccountJSON(acc))
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type forgotPasswordResponse struct {
	Message   string `json:"message"`
	ResetCode string `json:"resetCode,omitempty"`
}

func (h *Handlers) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if !decode(w, r, &req) {
		return
	}
	code, err := h.Reset.Issue(r.Context(), req.Email)
	if err != nil {
		mapError(w, err)
		return
	}
	resp := forgotPasswordResponse{Message: "reset code sent"}
	if h.DevMode {
		resp.ResetCode = code
	}
	writeJSON(w, http.StatusOK, resp)
}

type verifyResetCodeRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

func (h *Handlers) verifyResetCode(w http.ResponseWriter, r *http.Request) {
	var req verifyResetCodeRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.Reset.Verify(r.Context(), req.Email, req.Code); err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "code valid"})
}

type resetPasswordRequest struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"newPassword"`
}

func (h *Handlers) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if !decode(w, r, &req) {
		return
	}
	if req.NewPassword == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "newPassword is required")
		return
	}
	if err := h.Reset.Consume(r.Context(), req.Email, req.Code, req.NewPassword); err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "password updated"})
}

// ---- accounts ----

type updateAccountRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handlers) updateAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	claims, _ := ClaimsFrom(r.Context())
	if claims.AccountID != id {
		writeProblem(w, http.StatusForbidden, "Forbidden", "cannot modify another account")
		return
	}
	var req updateAccountRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Email == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "email is required")
		return
	}
	acc, err := h.Accounts.Update(r.Context(), id, req.Name, req.Email, req.Password)
	if err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAccountJSON(acc))
}

type updatePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

func (h *Handlers) updateAccountPassword(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	claims, _ := ClaimsFrom(r.Context())
	if claims.AccountID != id {
		writeProblem(w, http.StatusForbidden, "Forbidden", "cannot modify another account")
		return
	}
	var req updatePasswordRequest
	if !decode(w, r, &req) {
		return
	}
	if req.NewPassword == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "newPassword is required")
		return
	}
	if err := h.Accounts.UpdatePassword(r.Context(), id, req.OldPassword, req.NewPassword); err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "password updated"})
}

// ---- services ----

type proposalRequest struct {
	Name            string     `json:"name"`
	Description     string     `json:"description"`
	Location        string     `json:"location"`
	OwnerEmail      *string    `json:"ownerEmail"`
	EndDate         *time.Time `json:"endDate"`
	ReservationLink *string    `json:"reservationLink"`
	Delegation      *string    `json:"delegation"`
	Sector          *string    `json:"sector"`
	Provider        *string    `json:"provider"`
	Institution     *string    `json:"institution"`
	Category        *string    `json:"category"`
}

func (req proposalRequest) input() app.ProposalInput {
	return app.ProposalInput{
		Name: req.Name, Description: req.Description, Location: req.Location,
		OwnerEmail: req.OwnerEmail, EndDate: req.EndDate, ReservationLink: req.ReservationLink,
		Delegation: req.Delegation, Sector: req.Sector, Provider: req.Provider,
		Institution: req.Institution, Category: req.Category,
	}
}

func (h *Handlers) listServices(w http.ResponseWriter, r *http.Request) {
	sps, err := h.Proposals.FindAll(r.Context())
	if err != nil {
		mapError(w, err)
		return
	}
	out := make([]proposalJSON, 0, len(sps))
	for _, sp := range sps {
		out = append(out, toProposalJSON(sp))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) createService(w http.ResponseWriter, r *http.Request) {
	var req proposalRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "name is required")
		return
	}
	if req.Location == "" {
		req.Location = defaultLocation
	}
	claims, _ := ClaimsFrom(r.Context())
	acc, err := h.Accounts.GetByEmail(r.Context(), claims.Email)
	if err != nil {
		mapError(w, err)
		return
	}
	sp, err := h.Proposals.Create(r.Context(), req.input(), acc)
	if err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProposalJSON(sp))
}

func (h *Handlers) updateService(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req proposalRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "name is required")
		return
	}
	sp, err := h.Proposals.Update(r.Context(), id, req.input())
	if err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProposalJSON(sp))
}

func (h *Handlers) deleteService(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.Proposals.Delete(r.Context(), id); err != nil {
		mapError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) voteService(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	sp, err := h.Proposals.Vote(r.Context(), id)
	if err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProposalJSON(sp))
}

// ---- reviews ----

type addReviewRequest struct {
	Rating      *float64 `json:"rating"`
	Comment     string   `json:"comment"`
	Provider    string   `json:"provider"`
	BookingFrom string   `json:"bookingStartDate"`
	BookingTo   string   `json:"bookingEndDate"`
}

func (h *Handlers) addReview(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req addReviewRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Rating == nil || *req.Rating < 0 || *req.Rating > 5 {
		writeProblem(w, http.StatusBadRequest, "Invalid Rating", "rating must be between 0.0 and 5.0")
		return
	}
	in := app.ReviewInput{
		Rating:   *req.Rating,
		Comment:  req.Comment,
		Provider: req.Provider,
	}
	claims, _ := ClaimsFrom(r.Context())
	in.ClientEmail = claims.Email

	if req.BookingFrom != "" {
		d, err := time.Parse("2006-01-02", req.BookingFrom)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid Body", "bookingStartDate must be YYYY-MM-DD")
			return
		}
		in.BookingFrom = &d
	}
	if req.BookingTo != "" {
		d, err := time.Parse("2006-01-02", req.BookingTo)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid Body", "bookingEndDate must be YYYY-MM-DD")
			return
		}
		in.BookingTo = &d
	}

	rv, err := h.Reviews.AddReview(r.Context(), id, in)
	if err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toReviewJSON(rv))
}

func (h *Handlers) listServiceReviews(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	rvs, err := h.Reviews.ListByService(r.Context(), id)
	if err != nil {
		mapError(w, err)
		return
	}
	out := make([]reviewJSON, 0, len(rvs))
	for _, rv := range rvs {
		out = append(out, toReviewJSON(rv))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) hasReviewed(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	claims, _ := ClaimsFrom(r.Context())
	yes, err := h.Reviews.HasReviewed(r.Context(), id, claims.Email)
	if err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"hasReviewed": yes})
}

func (h *Handlers) deleteReview(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.Reviews.DeleteReview(r.Context(), id); err != nil {
		mapError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
