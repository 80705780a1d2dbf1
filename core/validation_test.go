package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateChunkTable(t *testing.T) {
	tests := []struct {
		name    string
		chunk   *Chunk
		wantErr error
	}{
		{
			name:    "valid chunk",
			chunk:   &Chunk{Text: "The contractor shall submit a plan.", Index: 0, Chapter: 19},
			wantErr: nil,
		},
		{
			name:    "valid chunk without source file",
			chunk:   &Chunk{Text: "Clause text", Index: 3, Chapter: 52},
			wantErr: nil,
		},
		{
			name:    "nil chunk",
			chunk:   nil,
			wantErr: ErrInvalidChunk,
		},
		{
			name:    "whitespace text",
			chunk:   &Chunk{Text: "   \n", Index: 0, Chapter: 19},
			wantErr: ErrEmptyChunkText,
		},
		{
			name:    "negative index",
			chunk:   &Chunk{Text: "text", Index: -1, Chapter: 19},
			wantErr: ErrInvalidChunk,
		},
		{
			name:    "chapter zero",
			chunk:   &Chunk{Text: "text", Index: 0, Chapter: 0},
			wantErr: ErrPartOutOfRange,
		},
		{
			name:    "chapter beyond last part",
			chunk:   &Chunk{Text: "text", Index: 0, Chapter: 54},
			wantErr: ErrPartOutOfRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateChunk(tt.chunk)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestValidateDocumentTable(t *testing.T) {
	tests := []struct {
		name    string
		doc     *Document
		wantErr error
	}{
		{
			name:    "valid document",
			doc:     &Document{Chapter: 19, Text: "Section text."},
			wantErr: nil,
		},
		{
			name:    "nil document",
			doc:     nil,
			wantErr: ErrInvalidDocument,
		},
		{
			name:    "empty text",
			doc:     &Document{Chapter: 19, Text: ""},
			wantErr: ErrEmptyDocumentText,
		},
		{
			name:    "chapter out of range",
			doc:     &Document{Chapter: 99, Text: "Section text."},
			wantErr: ErrPartOutOfRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDocument(tt.doc)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestValidateMessageTable(t *testing.T) {
	tests := []struct {
		name    string
		msg     *Message
		wantErr error
	}{
		{
			name:    "valid user message",
			msg:     &Message{Role: RoleUser, Content: "What is FAR 19.702?"},
			wantErr: nil,
		},
		{
			name:    "valid assistant message",
			msg:     &Message{Role: RoleAssistant, Content: "FAR 19.702 covers..."},
			wantErr: nil,
		},
		{
			name:    "nil message",
			msg:     nil,
			wantErr: ErrInvalidMessage,
		},
		{
			name:    "empty content",
			msg:     &Message{Role: RoleUser, Content: ""},
			wantErr: ErrEmptyContent,
		},
		{
			name:    "invalid role",
			msg:     &Message{Role: Role("system"), Content: "hello"},
			wantErr: ErrInvalidRole,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMessage(tt.msg)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestValidateRole(t *testing.T) {
	assert.NoError(t, ValidateRole(RoleUser))
	assert.NoError(t, ValidateRole(RoleAssistant))
	assert.ErrorIs(t, ValidateRole(Role("bot")), ErrInvalidRole)
}
