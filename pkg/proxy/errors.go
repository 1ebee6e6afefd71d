package proxy

import (
	"errors"

	"mercator-hq/solace/pkg/conversation"
	"mercator-hq/solace/pkg/proxy/types"
)

// HandleError maps a conversation error to its HTTP error. Unknown errors,
// including upstream failures, become a 500 with a static message.
//
//	if err != nil {
//	    WriteErrorResponse(w, HandleError(err))
//	    return
//	}
func HandleError(err error) *types.APIError {
	var reqErr *RequestError

	switch {
	case errors.Is(err, conversation.ErrUnauthorized):
		return types.NewUnauthorizedError()
	case errors.Is(err, conversation.ErrBadRequest), errors.As(err, &reqErr):
		return types.NewBadRequestError()
	default:
		return types.NewServerError()
	}
}
