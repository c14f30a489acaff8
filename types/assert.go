package types

// Compile-time assertions that every TypeInfo variant actually implements
// the interface (and the optional capability interfaces where claimed).
var (
	_ TypeInfo = (*IntegerType)(nil)
	_ TypeInfo = (*FloatingType)(nil)
	_ TypeInfo = (*BoolType)(nil)
	_ TypeInfo = (*StringType)(nil)
	_ TypeInfo = (*IntegerConstant)(nil)
	_ TypeInfo = (*FloatingConstant)(nil)
	_ TypeInfo = (*BoolConstant)(nil)
	_ TypeInfo = (*CharConstant)(nil)
	_ TypeInfo = (*StringConstant)(nil)
	_ TypeInfo = (*AutoTypeInfo)(nil)
	_ TypeInfo = (*ClassDeclarationType)(nil)
	_ TypeInfo = (*ClassType)(nil)
	_ TypeInfo = (*UnresolvedClassType)(nil)
	_ TypeInfo = (*FunctionType)(nil)
	_ TypeInfo = (*CompositeType)(nil)
	_ TypeInfo = (*UnsafeArrayType)(nil)

	_ CastCapable = (*IntegerType)(nil)
	_ CastCapable = (*FloatingType)(nil)

	_ DefaultValued = (*IntegerType)(nil)
	_ DefaultValued = (*FloatingType)(nil)
	_ DefaultValued = (*BoolType)(nil)
	_ DefaultValued = (*StringType)(nil)
	_ DefaultValued = (*ClassType)(nil)

	_ PromotesForOperator = (*IntegerType)(nil)
)
