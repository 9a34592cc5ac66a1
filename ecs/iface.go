package ecs

import "unsafe"

// iface mirrors the runtime layout of a non-empty interface value. data of a
// boxed reflect.Type is the *rtype, which is unique per type and used as its
// identity when hashing archetypes and reading components through views.
type iface struct {
	typ  unsafe.Pointer
	data unsafe.Pointer
}
