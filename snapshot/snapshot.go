// Package snapshot renders store contents as protobuf well-known types so
// they can be printed or handed to any protojson consumer.
package snapshot

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/tailored-agentic-units/recordstore/collection"
	"github.com/tailored-agentic-units/recordstore/record"
	"github.com/tailored-agentic-units/recordstore/store"
)

// Record returns r's id, uuid and type-specific fields as a Struct. An absent
// id renders as null.
func Record(r record.Record) (*structpb.Struct, error) {
	if record.IsNil(r) {
		return nil, fmt.Errorf("snapshot: %w", collection.ErrNilRecord)
	}

	fields := make(map[string]*structpb.Value, len(r.Fields())+2)
	for k, v := range r.Fields() {
		value, err := structpb.NewValue(v)
		if err != nil {
			return nil, fmt.Errorf("snapshot: field %s of %s: %w", k, r.UUID(), err)
		}
		fields[k] = value
	}

	if id := r.ID(); id != "" {
		fields["id"] = structpb.NewStringValue(id)
	} else {
		fields["id"] = structpb.NewNullValue()
	}
	fields["uuid"] = structpb.NewStringValue(r.UUID())

	return &structpb.Struct{Fields: fields}, nil
}

// Collection renders the members of the named collection in order.
func Collection(s *store.Store, name string) (*structpb.ListValue, error) {
	records, err := s.All(name)
	if err != nil {
		return nil, err
	}

	values := make([]*structpb.Value, len(records))
	for i, r := range records {
		st, err := Record(r)
		if err != nil {
			return nil, err
		}
		values[i] = structpb.NewStructValue(st)
	}
	return &structpb.ListValue{Values: values}, nil
}

// Store renders every collection of s keyed by collection name.
func Store(s *store.Store) (*structpb.Struct, error) {
	names := s.Names()
	fields := make(map[string]*structpb.Value, len(names))
	for _, name := range names {
		list, err := Collection(s, name)
		if err != nil {
			return nil, err
		}
		fields[name] = structpb.NewListValue(list)
	}
	return &structpb.Struct{Fields: fields}, nil
}

// Marshal encodes msg as indented JSON.
func Marshal(msg proto.Message) ([]byte, error) {
	return protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(msg)
}
