package schema

import (
	"github.com/dianpeng/plan2cc/types"
)

// TPCH returns the standard TPC-H catalog.
func TPCH() *Catalog {
	c := NewCatalog()

	c.Add("part", []Attribute{
		{"p_partkey", types.Integer},
		{"p_name", types.String},
		{"p_mfgr", types.String},
		{"p_brand", types.String},
		{"p_type", types.String},
		{"p_size", types.Integer},
		{"p_container", types.String},
		{"p_retailprice", types.Double},
		{"p_comment", types.String},
	})

	c.Add("supplier", []Attribute{
		{"s_suppkey", types.Integer},
		{"s_name", types.String},
		{"s_address", types.String},
		{"s_nationkey", types.Integer},
		{"s_phone", types.String},
		{"s_acctbal", types.Double},
		{"s_comment", types.String},
	})

	c.Add("partsupp", []Attribute{
		{"ps_partkey", types.Integer},
		{"ps_suppkey", types.Integer},
		{"ps_availqty", types.Integer},
		{"ps_supplycost", types.Double},
		{"ps_comment", types.String},
	})

	c.Add("customer", []Attribute{
		{"c_custkey", types.Integer},
		{"c_name", types.String},
		{"c_address", types.String},
		{"c_nationkey", types.Integer},
		{"c_phone", types.String},
		{"c_acctbal", types.Double},
		{"c_mktsegment", types.String},
		{"c_comment", types.String},
	})

	c.Add("orders", []Attribute{
		{"o_orderkey", types.BigInt},
		{"o_custkey", types.Integer},
		{"o_orderstatus", types.Char},
		{"o_totalprice", types.Double},
		{"o_orderdate", types.Date},
		{"o_orderpriority", types.String},
		{"o_clerk", types.String},
		{"o_shippriority", types.Integer},
		{"o_comment", types.String},
	})

	c.Add("lineitem", []Attribute{
		{"l_orderkey", types.BigInt},
		{"l_partkey", types.Integer},
		{"l_suppkey", types.Integer},
		{"l_linenumber", types.Integer},
		{"l_quantity", types.Double},
		{"l_extendedprice", types.Double},
		{"l_discount", types.Double},
		{"l_tax", types.Double},
		{"l_returnflag", types.Char},
		{"l_linestatus", types.Char},
		{"l_shipdate", types.Date},
		{"l_commitdate", types.Date},
		{"l_receiptdate", types.Date},
		{"l_shipinstruct", types.String},
		{"l_shipmode", types.String},
		{"l_comment", types.String},
	})

	c.Add("nation", []Attribute{
		{"n_nationkey", types.Integer},
		{"n_name", types.String},
		{"n_regionkey", types.Integer},
		{"n_comment", types.String},
	})

	c.Add("region", []Attribute{
		{"r_regionkey", types.Integer},
		{"r_name", types.String},
		{"r_comment", types.String},
	})

	return c
}
