// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"
	"sync"

	"github.com/bitmark-inc/logger"
	"github.com/syndtr/goleveldb/leveldb"
	ldb_opt "github.com/syndtr/goleveldb/leveldb/opt"

	"github.com/seirchain/seird/fault"
)

// the tables of the triad store, see doc.go for their key layout
type pools struct {
	Triads *PoolHandle
	Proofs *PoolHandle
	Final  *PoolHandle
}

// Pool - the tables, valid between Initialise and Finalise
var Pool pools

// layout of the key space, a database written with a newer layout is
// refused
const layoutVersion uint32 = 0x100

var layoutKey = []byte{0x00, 'V', 'E', 'R', 'S', 'I', 'O', 'N'}

// holds the database handle
var poolData struct {
	sync.RWMutex
	database *leveldb.DB
}

// pool access modes
const (
	ReadOnly  = true
	ReadWrite = false
)

// Initialise - open or create "<database>.leveldb"
//
// a read only open of a missing or empty store fails
func Initialise(database string, readOnly bool) error {
	poolData.Lock()
	defer poolData.Unlock()

	if nil != poolData.database {
		return fault.ErrAlreadyInitialised
	}

	db, err := leveldb.OpenFile(database+".leveldb", &ldb_opt.Options{
		ErrorIfMissing: readOnly,
		ReadOnly:       readOnly,
	})
	if nil != err {
		return err
	}

	if err := checkLayout(db, readOnly); nil != err {
		logger.Criticalf("database: %q  error: %s", database, err)
		db.Close()
		return err
	}

	poolData.database = db
	Pool = pools{
		Triads: newHandle('T', readOnly),
		Proofs: newHandle('P', readOnly),
		Final:  newHandle('F', readOnly),
	}
	return nil
}

// Finalise - close the database, handles taken from Pool start
// returning fault.ErrNotInitialised
func Finalise() {
	poolData.Lock()
	defer poolData.Unlock()

	if nil != poolData.database {
		poolData.database.Close()
		poolData.database = nil
	}
}

func newHandle(prefix byte, readOnly bool) *PoolHandle {
	var limit []byte
	if prefix < 0xff {
		limit = []byte{prefix + 1}
	}
	return &PoolHandle{
		prefix:   prefix,
		limit:    limit,
		readOnly: readOnly,
	}
}

// a fresh writable store is stamped with the current layout
func checkLayout(db *leveldb.DB, readOnly bool) error {
	value, err := db.Get(layoutKey, nil)
	switch {
	case leveldb.ErrNotFound == err && readOnly:
		return fault.ErrIncompatibleDatabase
	case leveldb.ErrNotFound == err:
		stamp := make([]byte, 4)
		binary.BigEndian.PutUint32(stamp, layoutVersion)
		return db.Put(layoutKey, stamp, nil)
	case nil != err:
		return err
	case 4 != len(value):
		return fault.ErrIncompatibleDatabase
	}

	if version := binary.BigEndian.Uint32(value); version > layoutVersion {
		logger.Criticalf("database layout: 0x%x is newer than: 0x%x", version, layoutVersion)
		return fault.ErrIncompatibleDatabase
	}
	return nil
}
