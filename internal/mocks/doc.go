// Package mocks provides centralized mock implementations for testing.
//
// The store mocks are testify/mock based: set expectations with On and
// check them with AssertExpectations. MockPasswordHasher uses function
// fields with a predictable default instead.
//
//	users := new(mocks.UserStore)
//	users.On("GetByID", mock.Anything, id).Return(nil, store.ErrUserNotFound)
//
// When adding a new mock to this package:
//  1. Add it next to the mocks of the same layer
//  2. Assert at compile time that it satisfies the interface
//  3. Document any helper methods or special behavior
package mocks
