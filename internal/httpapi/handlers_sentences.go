package httpapi

import (
	"errors"
	"net/http"

	"github.com/amr-platform/annotation-core/pkg/domain"
	"github.com/amr-platform/annotation-core/pkg/workflow"
)

func (h *handlers) createSentence(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	projectID, err := pathInt64(r, "projectID")
	if err != nil {
		writeErrorWithStatus(w, http.StatusBadRequest, "Geçersiz proje kimliği.")
		return
	}

	var req sentenceCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorWithStatus(w, http.StatusBadRequest, "Geçersiz istek gövdesi.")
		return
	}
	if err := validate().Struct(req); err != nil {
		writeErrorWithStatus(w, http.StatusBadRequest, "Geçersiz alanlar.")
		return
	}

	sentence, err := h.deps.Orchestrator.Create(r.Context(), workflow.CreateRequest{
		ProjectID:  projectID,
		Text:       req.Text,
		Source:     req.Source,
		Difficulty: req.Difficulty,
		ActorID:    claims.UserID,
		ActorRole:  claims.Role,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sentence)
}

func (h *handlers) assignSentence(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	sentenceID, err := pathInt64(r, "id")
	if err != nil {
		writeErrorWithStatus(w, http.StatusBadRequest, "Geçersiz cümle kimliği.")
		return
	}

	var req assignmentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorWithStatus(w, http.StatusBadRequest, "Geçersiz istek gövdesi.")
		return
	}
	if err := validate().Struct(req); err != nil {
		writeErrorWithStatus(w, http.StatusBadRequest, "Geçersiz alanlar.")
		return
	}
	role, ok := validRole(req.Role)
	if !ok {
		writeErrorWithStatus(w, http.StatusBadRequest, "Geçersiz rol.")
		return
	}

	assignments, err := h.deps.Orchestrator.Assign(r.Context(), workflow.AssignRequest{
		SentenceID:          sentenceID,
		ActorID:             claims.UserID,
		ActorRole:           claims.Role,
		Strategy:            domain.AssignmentStrategy(req.Strategy),
		Role:                role,
		Count:               req.Count,
		RequiredSkills:      req.RequiredSkills,
		ProvidedAssignees:   req.ProvidedAssignees,
		ExcludeUserIDs:      req.ExcludeUserIDs,
		AllowMultiple:       req.AllowMultiple,
		ReassignAfterReject: req.ReassignAfterReject,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, assignments)
}

func (h *handlers) submitAnnotation(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	sentenceID, err := pathInt64(r, "id")
	if err != nil {
		writeErrorWithStatus(w, http.StatusBadRequest, "Geçersiz cümle kimliği.")
		return
	}

	var req submitRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorWithStatus(w, http.StatusBadRequest, "Geçersiz istek gövdesi.")
		return
	}
	if err := validate().Struct(req); err != nil {
		writeErrorWithStatus(w, http.StatusBadRequest, "Geçersiz alanlar.")
		return
	}

	result, err := h.deps.Orchestrator.Submit(r.Context(), workflow.SubmitRequest{
		SentenceID: sentenceID,
		ActorID:    claims.UserID,
		ActorRole:  claims.Role,
		PenmanText: req.Penman,
	})
	if err != nil {
		if errors.Is(err, domain.ErrValidationFailed) && result != nil {
			writeValidationFailed(w, result.Report)
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result.Annotation)
}

func (h *handlers) reviewAnnotation(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	sentenceID, err := pathInt64(r, "id")
	if err != nil {
		writeErrorWithStatus(w, http.StatusBadRequest, "Geçersiz cümle kimliği.")
		return
	}

	var req reviewRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorWithStatus(w, http.StatusBadRequest, "Geçersiz istek gövdesi.")
		return
	}
	if err := validate().Struct(req); err != nil {
		writeErrorWithStatus(w, http.StatusBadRequest, "Geçersiz alanlar.")
		return
	}

	sentence, err := h.deps.Orchestrator.Review(r.Context(), workflow.ReviewRequest{
		SentenceID:       sentenceID,
		ActorID:          claims.UserID,
		ActorRole:        claims.Role,
		AnnotationID:     req.AnnotationID,
		Decision:         domain.ReviewDecision(req.Decision),
		Score:            req.Score,
		Comment:          req.Comment,
		IsMultiAnnotator: req.IsMultiAnnotator,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sentence)
}

func (h *handlers) adjudicateSentence(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	sentenceID, err := pathInt64(r, "id")
	if err != nil {
		writeErrorWithStatus(w, http.StatusBadRequest, "Geçersiz cümle kimliği.")
		return
	}

	var req adjudicateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorWithStatus(w, http.StatusBadRequest, "Geçersiz istek gövdesi.")
		return
	}
	if err := validate().Struct(req); err != nil {
		writeErrorWithStatus(w, http.StatusBadRequest, "Geçersiz alanlar.")
		return
	}

	adjudication, err := h.deps.Orchestrator.Adjudicate(r.Context(), workflow.AdjudicateRequest{
		SentenceID:          sentenceID,
		ActorID:             claims.UserID,
		ActorRole:           claims.Role,
		FinalPenman:         req.FinalPenman,
		Note:                req.Note,
		SourceAnnotationIDs: req.SourceAnnotationIDs,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, adjudication)
}

func (h *handlers) acceptSentence(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	sentenceID, err := pathInt64(r, "id")
	if err != nil {
		writeErrorWithStatus(w, http.StatusBadRequest, "Geçersiz cümle kimliği.")
		return
	}

	sentence, err := h.deps.Orchestrator.Accept(r.Context(), workflow.AcceptRequest{
		SentenceID: sentenceID,
		ActorID:    claims.UserID,
		ActorRole:  claims.Role,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sentence)
}

func (h *handlers) reopenSentence(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	sentenceID, err := pathInt64(r, "id")
	if err != nil {
		writeErrorWithStatus(w, http.StatusBadRequest, "Geçersiz cümle kimliği.")
		return
	}

	var req reopenRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorWithStatus(w, http.StatusBadRequest, "Geçersiz istek gövdesi.")
		return
	}
	if err := validate().Struct(req); err != nil {
		writeErrorWithStatus(w, http.StatusBadRequest, "Geçersiz alanlar.")
		return
	}

	sentence, err := h.deps.Orchestrator.Reopen(r.Context(), workflow.ReopenRequest{
		SentenceID: sentenceID,
		ActorID:    claims.UserID,
		ActorRole:  claims.Role,
		Reason:     req.Reason,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sentence)
}
