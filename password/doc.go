// Package password hashes and verifies login passwords with Argon2id.
//
// Hashes use the PHC string format:
//
//	$argon2id$v=19$m=<memory>,t=<time>,p=<threads>$<salt>$<hash>
//
// Verification reads the cost parameters from the stored hash, so raising the
// configured costs does not invalidate existing hashes; [Hasher.NeedsRehash]
// reports when a stored hash is weaker than the current configuration.
package password
