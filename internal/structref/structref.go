// Package structref (de)serializes a value alongside its concrete type
// name, so a polymorphic field (such as a tagged BlockingResultInfo
// variant) can be reconstructed without the caller already knowing which
// concrete type was stored. Only named struct types, and pointers to them,
// resolve on Deserialize; other values, such as builtins (int) and slices,
// fail there with ErrUnresolved.
package structref

import (
	"reflect"

	jsoniter "github.com/json-iterator/go"
	"github.com/modern-go/reflect2"
	"github.com/pkg/errors"
)

// ErrUnresolved is returned when the type with given package path and name does not exist.
// It's usually caused by disuse: the Go compiler erases unused and unimported types, so the
// receiver of the serialized value must import the package that defines the referred type.
var ErrUnresolved = errors.New("unresolved type")

type descriptor struct {
	PkgPath string      `json:"pkgPath"`
	Name    string      `json:"name"`
	Pointer bool        `json:"pointer"`
	Data    interface{} `json:"data"`
}

// Serialize encodes v together with its concrete type's package path and
// name. A pointer's Name/PkgPath are both empty (only the pointed-to
// defined type carries them), so pointers are unwrapped to the elem type
// before the descriptor is built; Pointer records whether to re-wrap on
// Deserialize.
func Serialize(v interface{}) ([]byte, error) {
	typ := reflect.TypeOf(v)
	isPtr := typ.Kind() == reflect.Ptr
	if isPtr {
		typ = typ.Elem()
	}
	return jsoniter.Marshal(descriptor{
		PkgPath: typ.PkgPath(),
		Name:    typ.Name(),
		Pointer: isPtr,
		Data:    v,
	})
}

// Deserialize decodes a value previously produced by Serialize, resolving
// its concrete type by package path and name via reflect2.
func Deserialize(data []byte) (interface{}, error) {
	desc := new(struct {
		PkgPath string              `json:"pkgPath"`
		Name    string              `json:"name"`
		Pointer bool                `json:"pointer"`
		Data    jsoniter.RawMessage `json:"data"`
	})
	if err := jsoniter.Unmarshal(data, desc); err != nil {
		return nil, errors.Wrap(err, "deserialize descriptor")
	}
	typ := reflect2.TypeByPackageName(desc.PkgPath, desc.Name)
	if typ == nil {
		return nil, errors.Wrapf(ErrUnresolved, "resolve %s.(%s)", desc.PkgPath, desc.Name)
	}
	v := typ.New() // reflect2.Type.New always returns a pointer to a new zero value
	if err := jsoniter.Unmarshal(desc.Data, v); err != nil {
		return nil, errors.Wrapf(err, "deserialize struct data %s", string(desc.Data))
	}
	if desc.Pointer {
		return v, nil
	}
	return reflect.ValueOf(v).Elem().Interface(), nil
}
