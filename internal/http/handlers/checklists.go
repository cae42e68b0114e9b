package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dropDatabas3/argent/internal/domain"
	"github.com/dropDatabas3/argent/internal/http/helpers"
	mw "github.com/dropDatabas3/argent/internal/http/middlewares"
	"github.com/dropDatabas3/argent/internal/observability/logger"
	"github.com/dropDatabas3/argent/internal/store"
)

// ChecklistsHandler maneja checklists, ítems y sharing.
// Autorización: lecturas y escrituras de contenido piden Owner o Editor;
// delete/share/unshare piden Owner. Acá sí aplica Forbidden: es una
// decisión posterior a la autenticación.
type ChecklistsHandler struct {
	Checklists store.Checklists
}

type checklistRequest struct {
	Name string `json:"name"`
}

type checklistItemRequest struct {
	Title     string `json:"title"`
	Checklist string `json:"checklist"`
}

type shareRequest struct {
	UserID     string            `json:"user_id"`
	AccessType domain.AccessType `json:"access_type"`
}

// List devuelve las checklists a las que el usuario tiene acceso.
func (h *ChecklistsHandler) List(w http.ResponseWriter, r *http.Request) {
	user := mw.MustGetUser(r.Context())
	lists, err := h.Checklists.ListForUser(r.Context(), user.ID)
	if err != nil {
		h.serverError(w, r, "listado de checklists falló", err)
		return
	}
	if lists == nil {
		lists = []domain.Checklist{}
	}
	helpers.WriteJSON(w, http.StatusOK, lists)
}

// Create crea una checklist con el usuario como Owner.
func (h *ChecklistsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req checklistRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		helpers.WriteError(w, helpers.ErrBadRequest.WithDetail("name is required"))
		return
	}

	user := mw.MustGetUser(r.Context())
	checklist := domain.NewChecklist(req.Name)
	if err := h.Checklists.Create(r.Context(), checklist, user.ID); err != nil {
		h.serverError(w, r, "creación de checklist falló", err)
		return
	}
	logger.From(r.Context()).Info("checklist creada",
		logger.ChecklistID(checklist.ID), logger.UserID(user.ID))
	helpers.WriteJSON(w, http.StatusOK, helpers.OK())
}

// Get devuelve una checklist puntual.
func (h *ChecklistsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.checkedID(w, r, "id")
	if !ok || !h.requireAccess(w, r, id) {
		return
	}

	checklist, err := h.Checklists.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			helpers.WriteError(w, helpers.ErrNotFound)
			return
		}
		h.serverError(w, r, "lectura de checklist falló", err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, checklist)
}

// Delete borra la checklist entera. Solo Owner.
func (h *ChecklistsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.checkedID(w, r, "id")
	if !ok || !h.requireOwner(w, r, id) {
		return
	}
	if err := h.Checklists.Delete(r.Context(), id); err != nil {
		h.serverError(w, r, "borrado de checklist falló", err)
		return
	}
	logger.From(r.Context()).Info("checklist borrada", logger.ChecklistID(id))
	helpers.WriteJSON(w, http.StatusOK, helpers.OK())
}

// Items devuelve los ítems de una checklist.
func (h *ChecklistsHandler) Items(w http.ResponseWriter, r *http.Request) {
	id, ok := h.checkedID(w, r, "id")
	if !ok || !h.requireAccess(w, r, id) {
		return
	}
	items, err := h.Checklists.Items(r.Context(), id)
	if err != nil {
		h.serverError(w, r, "lectura de ítems falló", err)
		return
	}
	if items == nil {
		items = []domain.ChecklistItem{}
	}
	helpers.WriteJSON(w, http.StatusOK, items)
}

// CreateItem agrega un ítem pendiente.
func (h *ChecklistsHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req checklistItemRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	checklistID, err := uuid.Parse(req.Checklist)
	if err != nil {
		helpers.WriteError(w, helpers.ErrBadRequest.WithDetail("Invalid checklist id"))
		return
	}
	if req.Title == "" {
		helpers.WriteError(w, helpers.ErrBadRequest.WithDetail("title is required"))
		return
	}
	if !h.requireAccess(w, r, checklistID) {
		return
	}

	item := domain.NewChecklistItem(req.Title, checklistID)
	if err := h.Checklists.AddItem(r.Context(), item); err != nil {
		h.serverError(w, r, "alta de ítem falló", err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, helpers.OK())
}

// SetItemDone marca un ítem como hecho.
func (h *ChecklistsHandler) SetItemDone(w http.ResponseWriter, r *http.Request) {
	h.setDone(w, r, true)
}

// SetItemNotDone vuelve un ítem a pendiente.
func (h *ChecklistsHandler) SetItemNotDone(w http.ResponseWriter, r *http.Request) {
	h.setDone(w, r, false)
}

func (h *ChecklistsHandler) setDone(w http.ResponseWriter, r *http.Request, done bool) {
	id, ok := h.checkedID(w, r, "id")
	if !ok {
		return
	}
	if err := h.Checklists.SetItemDone(r.Context(), id, done); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			helpers.WriteError(w, helpers.ErrNotFound)
			return
		}
		h.serverError(w, r, "update de ítem falló", err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, helpers.OK())
}

// ClearDone borra los ítems ya hechos de una checklist.
func (h *ChecklistsHandler) ClearDone(w http.ResponseWriter, r *http.Request) {
	id, ok := h.checkedID(w, r, "id")
	if !ok || !h.requireAccess(w, r, id) {
		return
	}
	if err := h.Checklists.ClearDone(r.Context(), id); err != nil {
		h.serverError(w, r, "clear done falló", err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, helpers.OK())
}

// Share otorga acceso Owner o Editor a otro usuario. Solo Owner.
func (h *ChecklistsHandler) Share(w http.ResponseWriter, r *http.Request) {
	id, ok := h.checkedID(w, r, "id")
	if !ok {
		return
	}
	var req shareRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		helpers.WriteError(w, helpers.ErrBadRequest.WithDetail("Invalid user id"))
		return
	}
	if !req.AccessType.Valid() {
		helpers.WriteError(w, helpers.ErrBadRequest.WithDetail("Invalid access type"))
		return
	}
	if !h.requireOwner(w, r, id) {
		return
	}

	if err := h.Checklists.AddAccess(r.Context(), id, userID, req.AccessType); err != nil {
		h.serverError(w, r, "share falló", err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, helpers.OK())
}

// Unshare quita el acceso de un usuario. Solo Owner, y nunca puede quedar
// una checklist sin owner.
func (h *ChecklistsHandler) Unshare(w http.ResponseWriter, r *http.Request) {
	id, ok := h.checkedID(w, r, "id")
	if !ok {
		return
	}
	userID, ok := h.checkedID(w, r, "userID")
	if !ok {
		return
	}
	if !h.requireOwner(w, r, id) {
		return
	}

	accesses, err := h.Checklists.UsersWithAccess(r.Context(), id)
	if err != nil {
		h.serverError(w, r, "lectura de accesos falló", err)
		return
	}
	owners := 0
	removingOwner := false
	for _, a := range accesses {
		if a.AccessType == domain.AccessOwner {
			owners++
			if a.ID == userID {
				removingOwner = true
			}
		}
	}
	if removingOwner && owners == 1 {
		helpers.WriteError(w, helpers.ErrBadRequest.WithDetail("cannot remove the last owner of a checklist"))
		return
	}

	if err := h.Checklists.RemoveAccess(r.Context(), id, userID); err != nil {
		h.serverError(w, r, "unshare falló", err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, helpers.OK())
}

// AccessList devuelve los usuarios con acceso a la checklist.
func (h *ChecklistsHandler) AccessList(w http.ResponseWriter, r *http.Request) {
	id, ok := h.checkedID(w, r, "id")
	if !ok || !h.requireAccess(w, r, id) {
		return
	}
	accesses, err := h.Checklists.UsersWithAccess(r.Context(), id)
	if err != nil {
		h.serverError(w, r, "lectura de accesos falló", err)
		return
	}
	if accesses == nil {
		accesses = []domain.UserAccess{}
	}
	helpers.WriteJSON(w, http.StatusOK, accesses)
}

// checkedID parsea un UUID de la URL; escribe 400 si es inválido.
func (h *ChecklistsHandler) checkedID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		helpers.WriteError(w, helpers.ErrBadRequest.WithDetail("Invalid id"))
		return uuid.UUID{}, false
	}
	return id, true
}

// requireAccess exige Owner o Editor; escribe 403 si no hay acceso.
func (h *ChecklistsHandler) requireAccess(w http.ResponseWriter, r *http.Request, checklistID uuid.UUID) bool {
	_, err := h.access(w, r, checklistID)
	return err == nil
}

// requireOwner exige Owner.
func (h *ChecklistsHandler) requireOwner(w http.ResponseWriter, r *http.Request, checklistID uuid.UUID) bool {
	access, err := h.access(w, r, checklistID)
	if err != nil {
		return false
	}
	if access != domain.AccessOwner {
		helpers.WriteError(w, helpers.ErrForbidden)
		return false
	}
	return true
}

func (h *ChecklistsHandler) access(w http.ResponseWriter, r *http.Request, checklistID uuid.UUID) (domain.AccessType, error) {
	user := mw.MustGetUser(r.Context())
	access, err := h.Checklists.AccessType(r.Context(), checklistID, user.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			helpers.WriteError(w, helpers.ErrForbidden)
			return "", err
		}
		h.serverError(w, r, "chequeo de acceso falló", err)
		return "", err
	}
	return access, nil
}

func (h *ChecklistsHandler) serverError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	logger.From(r.Context()).Error(msg, logger.Err(err))
	helpers.WriteError(w, helpers.ErrInternalServerError)
}
