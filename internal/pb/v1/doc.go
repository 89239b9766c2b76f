// Package pb holds the generated protobuf types of the guard's on-disk state.
// Sources live in api/proto; regenerate with protoc-gen-go.
package pb
