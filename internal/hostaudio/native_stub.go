// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build !audio_native

package hostaudio

func openMalgo(Options) (Backend, error) { return nil, ErrNotBuilt }

func openOto(Options) (Backend, error) { return nil, ErrNotBuilt }

const nativeBuilt = false
