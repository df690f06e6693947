package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestPredicatesDistinguishKinds(t *testing.T) {
	validation := Validation("user_id is required")
	notFound := NotFound("conversation", "abc")
	timeout := &GatewayError{Err: errors.New("deadline"), Timeout: true}
	gateway := &GatewayError{Err: errors.New("upstream 503")}
	store := Store("insert", errors.New("connection reset"))

	if !IsValidation(validation) || IsValidation(notFound) {
		t.Error("IsValidation misclassifies")
	}
	if !IsNotFound(notFound) || IsNotFound(validation) {
		t.Error("IsNotFound misclassifies")
	}
	if !IsGatewayTimeout(timeout) || IsGatewayTimeout(gateway) {
		t.Error("IsGatewayTimeout misclassifies")
	}
	if !IsGateway(timeout) || !IsGateway(gateway) || IsGateway(store) {
		t.Error("IsGateway misclassifies")
	}
}

func TestPredicatesSeeThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("handling request: %w", NotFound("conversation", "abc"))
	if !IsNotFound(wrapped) {
		t.Error("wrapped not-found not detected")
	}
}

func TestGatewayErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := &GatewayError{Err: cause}
	if !errors.Is(err, cause) {
		t.Error("cause not reachable via errors.Is")
	}
}
