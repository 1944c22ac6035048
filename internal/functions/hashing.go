package functions

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"

	"github.com/quadfusion/engine/model"
)

func init() {
	register("MD5", Immutable, hashFnVar(func(b []byte) []byte { h := md5.Sum(b); return h[:] }))
	register("SHA1", Immutable, hashFnVar(func(b []byte) []byte { h := sha1.Sum(b); return h[:] }))
	register("SHA256", Immutable, hashFnVar(func(b []byte) []byte { h := sha256.Sum256(b); return h[:] }))
	register("SHA384", Immutable, hashFnVar(func(b []byte) []byte { h := sha512.Sum384(b); return h[:] }))
	register("SHA512", Immutable, hashFnVar(func(b []byte) []byte { h := sha512.Sum512(b); return h[:] }))
}

func hashFnVar(sum func([]byte) []byte) Impl {
	return func(args []model.Value) model.ThinResult[model.Value] {
		if len(args) != 1 {
			return model.Internal[model.Value]("hash function takes exactly one argument")
		}
		s, ok := stringOf(args[0])
		if !ok {
			return model.Expected[model.Value]("hash function argument is not a string")
		}
		return model.OK(model.Value{Kind: model.ValueString, Text: hex.EncodeToString(sum([]byte(s)))})
	}
}
