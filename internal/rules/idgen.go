package rules

import "github.com/google/uuid"

// IDGenerator produces fresh, unique rule identifiers.
type IDGenerator interface {
	NewID() string
}

// IDGeneratorFunc adapts a plain function to IDGenerator.
type IDGeneratorFunc func() string

func (f IDGeneratorFunc) NewID() string { return f() }

// UUIDGenerator issues random (version 4) UUIDs.
var UUIDGenerator IDGenerator = IDGeneratorFunc(uuid.NewString)
