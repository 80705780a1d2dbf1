// Copyright 2025 The farbot Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidSectionRef indicates a section reference failed to parse.
	ErrInvalidSectionRef = errors.New("invalid section reference")

	// ErrPartOutOfRange indicates a FAR part number outside 1-53.
	ErrPartOutOfRange = errors.New("part number must be between 1 and 53")

	// ErrInvalidChunk indicates a Chunk failed validation.
	ErrInvalidChunk = errors.New("invalid chunk")

	// ErrEmptyChunkText indicates the chunk Text field is empty after trimming.
	ErrEmptyChunkText = errors.New("chunk text cannot be empty")

	// ErrInvalidMessage indicates a Message failed validation.
	ErrInvalidMessage = errors.New("invalid message")

	// ErrEmptyContent indicates the Content field is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrInvalidRole indicates a role other than user or assistant.
	ErrInvalidRole = errors.New("invalid role")

	// ErrInvalidDocument indicates a Document failed validation.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrEmptyDocumentText indicates the document Text field is empty.
	ErrEmptyDocumentText = errors.New("document text cannot be empty")
)
