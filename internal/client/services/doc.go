// Package services contains the application services of the filekeeper
// client: users (register, login, logout), files (encrypt, decrypt,
// listing) and the sync outbox. The REPL in internal/client/cli only talks
// to these services.
package services
