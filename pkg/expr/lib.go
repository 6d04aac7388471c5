package expr

import (
	"path/filepath"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"github.com/google/cel-go/ext"

	"github.com/macropower/netsense/pkg/mac"
	"github.com/macropower/netsense/pkg/match"
)

type lib struct{}

func (lib) CompileOptions() []cel.EnvOption {
	return []cel.EnvOption{
		ext.Strings(),
		ext.Lists(),

		// `pathBase` returns the last element of the path.
		// Example: pathBase(source) == "home.yml".
		cel.Function("pathBase",
			cel.Overload("path_base", []*cel.Type{cel.StringType}, cel.StringType,
				cel.UnaryBinding(stringFunc("pathBase", filepath.Base)),
			),
		),

		// `pathDir` returns all but the last element of the path.
		// Example: pathDir(source).endsWith("/work").
		cel.Function("pathDir",
			cel.Overload("path_dir", []*cel.Type{cel.StringType}, cel.StringType,
				cel.UnaryBinding(stringFunc("pathDir", filepath.Dir)),
			),
		),

		// `pathExt` returns the file extension of the path.
		// Example: pathExt(source) == ".yml".
		cel.Function("pathExt",
			cel.Overload("path_ext", []*cel.Type{cel.StringType}, cel.StringType,
				cel.UnaryBinding(stringFunc("pathExt", filepath.Ext)),
			),
		),

		// `inCIDR` reports whether an address is within a network, using the
		// same rules as the gateway_ip_address and external_ip_address keys.
		// Criteria keys are absent from definitions that do not set them, so
		// guard with has().
		// Example: has(criteria.gateway_ip_address) && inCIDR(criteria.gateway_ip_address, "192.168.0.0/16").
		cel.Function("inCIDR",
			cel.Overload("in_cidr_string_string", []*cel.Type{cel.StringType, cel.StringType}, cel.BoolType,
				cel.BinaryBinding(func(address, network ref.Val) ref.Val {
					a, ok := address.Value().(string)
					if !ok {
						return types.NewErr("inCIDR: invalid address value")
					}

					n, ok := network.Value().(string)
					if !ok {
						return types.NewErr("inCIDR: invalid network value")
					}

					res, err := match.Membership("inCIDR", &n, a)
					if err != nil {
						return types.NewErr("%s", err.Error())
					}

					return types.Bool(res == match.Match)
				}),
			),
		),

		// `macEqual` reports whether two MAC addresses are equal after
		// normalization.
		// Example: macEqual(criteria.gateway_mac_address, "aa:bb:cc:dd:ee:ff").
		cel.Function("macEqual",
			cel.Overload("mac_equal_string_string", []*cel.Type{cel.StringType, cel.StringType}, cel.BoolType,
				cel.BinaryBinding(func(a, b ref.Val) ref.Val {
					as, ok := a.Value().(string)
					if !ok {
						return types.NewErr("macEqual: invalid value")
					}

					bs, ok := b.Value().(string)
					if !ok {
						return types.NewErr("macEqual: invalid value")
					}

					eq, err := mac.Equal(as, bs)
					if err != nil {
						return types.NewErr("%s", err.Error())
					}

					return types.Bool(eq)
				}),
			),
		),
	}
}

func (lib) ProgramOptions() []cel.ProgramOption {
	return []cel.ProgramOption{}
}

func stringFunc(name string, fn func(string) string) func(ref.Val) ref.Val {
	return func(v ref.Val) ref.Val {
		s, ok := v.Value().(string)
		if !ok {
			return types.NewErr("%s: invalid string value", name)
		}

		return types.String(fn(s))
	}
}
