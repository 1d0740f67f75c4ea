package model

import "encoding/json"

// Optional は部分更新における1フィールド分の変更指示を表す。
// Setがfalseの場合は「変更しない」、trueの場合はValueで上書きする。
// nullを許容するフィールドはTにポインタ型を使い、Set=true かつ Value=nil で「NULLに更新」を表す。
type Optional[T any] struct {
	Set   bool
	Value T
}

// Some はValueで上書きするOptionalを返す。
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

// UnmarshalJSON はJSON上にキーが存在した時点でSetをtrueにする。
// キーが省略された場合は呼ばれないため、ゼロ値（変更なし）のまま残る。
func (o *Optional[T]) UnmarshalJSON(b []byte) error {
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	o.Set = true
	o.Value = v
	return nil
}

// Arg はSQLパラメータとして渡す値を返す。変更しない場合はnilを返す。
func (o Optional[T]) Arg() any {
	if !o.Set {
		return nil
	}
	return o.Value
}
