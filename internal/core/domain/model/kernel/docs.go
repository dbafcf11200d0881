// Package kernel holds the value objects shared by every aggregate of the
// back office: identifiers, calendar dates and times of day.
//
// The zero value of each type is invalid. Build them through their
// constructors and call Validate when a value crosses a trust boundary.
package kernel
