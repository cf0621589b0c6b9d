package view

import (
	"errors"
	"net/http"

	"forumweb/internal/api"
	"forumweb/internal/services"
)

const (
	msgNetwork       = "Erreur de connexion au serveur"
	msgGeneric       = "Une erreur est survenue"
	msgLoginRequired = "Veuillez vous connecter pour continuer"
	msgForbidden     = "Vous n'êtes pas autorisé à effectuer cette action"
	msgNotFound      = "Ce contenu n'existe pas ou a été supprimé"
	msgInProgress    = "Envoi en cours, veuillez patienter"
	msgTopicClosed   = "Ce topic est fermé, il n'accepte plus de réponses"
	msgEmptyReply    = "La réponse ne peut pas être vide"
	msgFillAll       = "Veuillez remplir tous les champs"
)

// Message turns any error into the French text shown to the visitor.
// Backend validation messages are passed through; server failures fall
// back to fallback (or a generic message).
func Message(err error, fallback string) string {
	if fallback == "" {
		fallback = msgGeneric
	}
	var (
		ne *api.NetworkError
		ae *api.AuthError
		nf *api.NotFoundError
		ve *api.ValidationError
	)
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrSubmitInProgress):
		return msgInProgress
	case errors.Is(err, services.ErrTopicClosed):
		return msgTopicClosed
	case errors.Is(err, services.ErrEmptyContent):
		return msgEmptyReply
	case errors.As(err, &ne):
		return msgNetwork
	case errors.As(err, &ae):
		if ae.Status == http.StatusForbidden {
			if msg, ok := api.ErrorMessage(err); ok {
				return msg
			}
			return msgForbidden
		}
		return msgLoginRequired
	case errors.As(err, &nf):
		return msgNotFound
	case errors.As(err, &ve):
		if msg, ok := api.ErrorMessage(err); ok {
			return msg
		}
		if ve.Body != "" {
			return ve.Body
		}
	}
	return fallback
}

func isNotFound(err error) bool {
	var nf *api.NotFoundError
	return errors.As(err, &nf)
}

func isUnauthenticated(err error) bool {
	var ae *api.AuthError
	return errors.As(err, &ae) && ae.Status == http.StatusUnauthorized
}
