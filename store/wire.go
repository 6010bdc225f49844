package store

import (
	"errors"
	"fmt"

	sdk "github.com/sessionstore-project/sdk"
)

// Host status codes shared by every storage response.
const (
	hostStatusOK       = int32(200)
	hostStatusBadInput = int32(400)
	hostStatusMissing  = int32(404)
	hostStatusError    = int32(500)
)

// status mirrors the status block carried by every host response.
type status struct {
	Status string `cbor:"status"`
	Code   int32  `cbor:"code"`
}

type setRequest struct {
	Key   string `cbor:"key"`
	Value string `cbor:"value"`
}

type keyedRequest struct {
	Key string `cbor:"key"`
}

type indexRequest struct {
	Index int32 `cbor:"index"`
}

type statusResponse struct {
	Status status `cbor:"status"`
}

type getResponse struct {
	Status status `cbor:"status"`
	Value  string `cbor:"value"`
}

type lengthResponse struct {
	Status status `cbor:"status"`
	Length int32  `cbor:"length"`
}

type keyResponse struct {
	Status status `cbor:"status"`
	Key    string `cbor:"key"`
}

type containsResponse struct {
	Status status `cbor:"status"`
	Exists bool   `cbor:"exists"`
}

// errMissing marks a 404 host status. It never escapes the package: callers
// of statusError translate it into an absent result or a no-op.
var errMissing = errors.New("entry not found")

// statusError maps a host status block to the SDK error taxonomy.
func statusError(s status) error {
	switch s.Code {
	case hostStatusOK:
		return nil
	case hostStatusMissing:
		return errMissing
	case hostStatusBadInput:
		detail := fmt.Sprintf("host rejected request (%d)", s.Code)
		if s.Status != "" {
			detail = fmt.Sprintf("%s: %s", detail, s.Status)
		}
		return errors.Join(sdk.ErrHostError, errors.New(detail))
	case hostStatusError:
		detail := fmt.Sprintf("host reported failure (%d)", s.Code)
		if s.Status != "" {
			detail = fmt.Sprintf("%s: %s", detail, s.Status)
		}
		return errors.Join(sdk.ErrHostError, errors.New(detail))
	default:
		return errors.Join(sdk.ErrHostResponseInvalid, fmt.Errorf("unexpected host status code %d", s.Code))
	}
}
