package userservice

import (
	"github.com/go-playground/validator/v10"
	"github.com/sushihentaime/quillpost/internal/common"
)

var validate = validator.New()

func validateUsername(v *common.Validator, username string) {
	v.Check(username != "", "username", "must be provided")
	v.Check(len(username) <= 50, "username", "must not be more than 50 characters long")
}

func validateEmail(v *common.Validator, email string) {
	v.Check(email != "", "email", "must be provided")
	v.Check(validate.Var(email, "email,max=254") == nil, "email", "must be a valid email address")
}

func validatePassword(v *common.Validator, password string) {
	v.Check(password != "", "password", "must be provided")
	// bcrypt ignores everything after 72 bytes
	v.Check(len(password) <= 72, "password", "must not be more than 72 bytes long")
}

func validateCredentials(v *common.Validator, email, password string) {
	v.Check(email != "", "email", "must be provided")
	v.Check(password != "", "password", "must be provided")
}
