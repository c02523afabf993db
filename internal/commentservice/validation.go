package commentservice

import "github.com/sushihentaime/quillpost/internal/common"

func validateContent(v *common.Validator, content string) {
	v.Check(content != "", "content", "must be provided")
}
