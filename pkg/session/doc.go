/*
Package session implements step-wise debug sessions over persisted runs.

A session is a running domain.Run kept in a ports.RunStore. Each call loads
the record, resumes a machine from it, applies some steps and saves it back.
Access to one session is serialized with reference-counted in-process locks
and, when configured, a ports.DistributedLocker shared across replicas.
*/
package session
