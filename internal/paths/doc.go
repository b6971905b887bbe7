// Package paths maps a (scope, standard) pair to the directory where skill
// packages live: the user's home, the nearest project root, or a system-wide
// location. Environment overrides are honored per standard, and the project
// root search is the single walk shared by install and discovery.
package paths
