// Package cache stores query results with a TTL so repeated listings do not
// hit the catalog API. Two backends implement Store: FileStore keeps one JSON
// file per entry under a directory, RedisStore shares entries between
// machines through Redis.
//
// Keys come from GenerateKey and are stable for equal parameters.
package cache
