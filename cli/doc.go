// Package cli parses command-line arguments, validates user input and
// translates flags into the options of one generation run. Process-level
// concerns such as exit codes are reported through ExitError.
package cli
