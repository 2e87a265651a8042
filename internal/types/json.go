package types

import jsoniter "github.com/json-iterator/go"

// JSON is the codec used for every wire body in the module.
var JSON = jsoniter.ConfigCompatibleWithStandardLibrary
