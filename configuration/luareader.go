// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration

import (
	"reflect"

	"github.com/yuin/gluamapper"
	lua "github.com/yuin/gopher-lua"

	"github.com/seirchain/seird/fault"
)

// Lua table keys are matched against these struct tags without any
// case conversion
var tableMapper = gluamapper.Mapper{
	Option: gluamapper.Option{
		NameFunc: func(s string) string { return s },
		TagName:  "gluamapper",
	},
}

// ParseConfigurationFile - run a Lua file and map the table it returns
// into config, which must point to a struct
//
// the script sees its own path as arg[0]
func ParseConfigurationFile(fileName string, config interface{}) error {
	return evaluate(config, fileName, func(L *lua.LState) error {
		return L.DoFile(fileName)
	})
}

// ParseConfigurationString - as ParseConfigurationFile for inline Lua
// source, arg[0] is empty
func ParseConfigurationString(source string, config interface{}) error {
	return evaluate(config, "", func(L *lua.LState) error {
		return L.DoString(source)
	})
}

func evaluate(config interface{}, scriptName string, run func(*lua.LState) error) error {
	if v := reflect.ValueOf(config); reflect.Ptr != v.Kind() || v.IsNil() || reflect.Struct != v.Elem().Kind() {
		return fault.ErrInvalidStructPointer
	}

	L := lua.NewState()
	defer L.Close()

	args := L.NewTable()
	args.RawSetInt(0, lua.LString(scriptName))
	L.SetGlobal("arg", args)

	if err := run(L); nil != err {
		return err
	}

	result, ok := L.Get(-1).(*lua.LTable)
	if !ok {
		return fault.ErrMissingParameters
	}
	return tableMapper.Map(result, config)
}
