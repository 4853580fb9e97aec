package ilfactory

import "github.com/matrixeditor/libfp/internal/integration"

func init() {
	integration.ILFactories.RegisterWithArgs(string(VariantBasic), func(args map[string]string) interface{} {
		return New(VariantBasic, args["appLoader"])
	})
	integration.ILFactories.RegisterWithArgs(string(VariantUnique), func(args map[string]string) interface{} {
		return New(VariantUnique, args["appLoader"])
	})
	integration.ILFactories.RegisterWithArgs(string(VariantHierarchy), func(args map[string]string) interface{} {
		return New(VariantHierarchy, args["appLoader"])
	})
}
