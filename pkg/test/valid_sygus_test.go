package test

import (
	"testing"
)

func Test_Valid_ConstFun(t *testing.T) {
	Check(t, true, "const_fun")
}

func Test_Valid_Identity(t *testing.T) {
	Check(t, true, "identity")
}

func Test_Valid_Max2(t *testing.T) {
	Check(t, true, "max2")
}

func Test_Valid_InvCounter(t *testing.T) {
	Check(t, true, "inv_counter")
}

func Test_Valid_DefinedFun(t *testing.T) {
	Check(t, true, "defined_fun")
}

func Test_Valid_BoolId(t *testing.T) {
	Check(t, true, "bool_id")
}

func Test_Valid_LetForall(t *testing.T) {
	Check(t, true, "let_forall")
}

func Test_Valid_BvIdentity(t *testing.T) {
	Check(t, true, "bv_identity")
}
