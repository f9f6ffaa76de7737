/*
Package ports defines the driven ports (interfaces) of the Turing engine.

These interfaces decouple the core from external implementations, so machines
can come from Go code, files or Markdown repositories and runs can be kept in
memory, on disk or in Redis.

# Key Interfaces

  - MachineLoader: Retrieves machine definitions by name (e.g., from Memory, a directory or Loam).
  - RunStore: Persists run records, finished or paused (debug sessions).
  - DistributedLocker: Provides distributed locking for concurrent session access.
*/
package ports
