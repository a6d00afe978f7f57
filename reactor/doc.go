// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package reactor wraps the OS readiness facility (epoll on Linux) behind a
// small register/unregister/wait interface used by the connection server.
package reactor
