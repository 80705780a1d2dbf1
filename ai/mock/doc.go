// Package mock provides test doubles for the ai interfaces.
//
// All mocks use function-field injection: set the corresponding Func field
// to override behavior, or leave it nil for a deterministic default. Call
// counts are tracked for interaction assertions. Constructors return
// concrete types so tests can reach the injection points.
package mock
