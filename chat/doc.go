// Package chat implements the question-answering turn: retrieve FAR
// context, prompt the model, and assemble the cited answer.
package chat
