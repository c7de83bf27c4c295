package family

import "errors"

var (
	ErrFamilyNotFound = errors.New("family not found")
	ErrFamilyExists   = errors.New("family code already exists")
	ErrMemberNotFound = errors.New("member not found")
	ErrAadharTaken    = errors.New("aadhar number already registered")
)
