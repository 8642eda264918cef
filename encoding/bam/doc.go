// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package bam augments the record model of github.com/grailbio/hts/sam with
// derived alignment spans (Record), flag predicates, and BAI index querying
// (Index.Chunks) driven by the ucscbin binning scheme.
package bam
