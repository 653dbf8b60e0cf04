/*
Package mongo reads a mdfs.RawInput out of a MongoDB collection, one document
per object, one field per variable plus a decision field.

Grounded on dataset/mongodataset/mongodataset.go: an mgo.Session handed in by
the caller and queries built as bson.M. Documents are read in the caller's
goroutine, one iterator step at a time; no background goroutine or channel
is used.
*/
package mongo

import (
	"context"
	"fmt"

	mgo "gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"

	"github.com/pbanos/mdfs"
)

type document bson.M

// New dials the MongoDB URL and pings the resulting session, mirroring
// pgadapter.New/sqlite3adapter.New's open-then-verify idiom for the driver
// this package's own mgo.Session parameter is drawn from.
func New(url string) (*mgo.Session, error) {
	session, err := mgo.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("mongo: dialing %s: %v", url, err)
	}
	if err := session.Ping(); err != nil {
		session.Close()
		return nil, fmt.Errorf("mongo: connecting to %s: %v", url, err)
	}
	return session, nil
}

// ReadRawInput reads every document of collection in session's default
// database into a mdfs.RawInput, using variables (in order) as the feature
// fields and decisionField as the class-label field. Grounded on
// mongodataset.Read's query-then-iterate shape, simplified since mdfs never
// needs mongodataset's feature.Criterion filtering.
func ReadRawInput(ctx context.Context, session *mgo.Session, collection string, variables []string, decisionField string) (mdfs.RawInput, error) {
	col := session.DB("").C(collection)
	iter := col.Find(bson.M{}).Iter()
	defer iter.Close()

	columns := make([][]float64, len(variables))
	var decision []int32
	var doc document
	for iter.Next(&doc) {
		if ctx.Err() != nil {
			return mdfs.RawInput{}, ctx.Err()
		}
		for i, name := range variables {
			v, err := floatField(doc, name)
			if err != nil {
				return mdfs.RawInput{}, fmt.Errorf("mongo: reading field %q: %v", name, err)
			}
			columns[i] = append(columns[i], v)
		}
		d, err := intField(doc, decisionField)
		if err != nil {
			return mdfs.RawInput{}, fmt.Errorf("mongo: reading decision field %q: %v", decisionField, err)
		}
		decision = append(decision, int32(d))
	}
	if err := iter.Err(); err != nil {
		return mdfs.RawInput{}, fmt.Errorf("mongo: iterating collection %s: %v", collection, err)
	}
	return mdfs.RawInput{Columns: columns, Decision: decision}, nil
}

func floatField(doc document, name string) (float64, error) {
	switch v := doc[name].(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	}
	return 0, fmt.Errorf("value %v (%T) is not numeric", doc[name], doc[name])
}

func intField(doc document, name string) (int64, error) {
	switch v := doc[name].(type) {
	case int:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case float64:
		return int64(v), nil
	}
	return 0, fmt.Errorf("value %v (%T) is not an integer", doc[name], doc[name])
}
