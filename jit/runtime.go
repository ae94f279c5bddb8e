// Package jit hosts emitted fragments: it wraps them in the query
// frame (runtime types, column mapping, the TPCH loader and a main
// function), compiles the result with an external C++ compiler and
// runs it against a data directory.
package jit

import (
	"fmt"
	"strings"

	"github.com/dianpeng/plan2cc/schema"
	"github.com/dianpeng/plan2cc/types"
)

// runtimePrelude is the fixed part of every generated program: the
// date type, tuple hashing and the mapped column readers. The column
// layout matches the store package byte for byte.
const runtimePrelude = `#include <fcntl.h>
#include <sys/mman.h>
#include <unistd.h>

#include <algorithm>
#include <cerrno>
#include <cstdint>
#include <cstdio>
#include <cstring>
#include <iostream>
#include <stdexcept>
#include <string>
#include <string_view>
#include <tuple>
#include <unordered_map>
#include <vector>

using namespace std;

struct date {
   int32_t value;

   date() : value(0) {}
   date(int32_t value) : value(value) {}

   inline friend auto operator<=>(const date& d1, const date& d2) = default;

   static void fromInt(unsigned date, unsigned& year, unsigned& month, unsigned& day) {
      unsigned a = date + 32044;
      unsigned b = (4 * a + 3) / 146097;
      unsigned c = a - ((146097 * b) / 4);
      unsigned d = (4 * c + 3) / 1461;
      unsigned e = c - ((1461 * d) / 4);
      unsigned m = (5 * e + 2) / 153;
      day = e - ((153 * m + 2) / 5) + 1;
      month = m + 3 - (12 * (m / 10));
      year = (100 * b) + d - 4800 + (m / 10);
   }

   friend ostream& operator<<(ostream& out, const date& d) {
      unsigned year, month, day;
      fromInt(d.value, year, month, day);
      char buffer[30];
      snprintf(buffer, sizeof(buffer), "%04u-%02u-%02u", year, month, day);
      return out << buffer;
   }
};

namespace std {
template<>
struct hash<date> {
   inline size_t operator()(date d) const {
      return hash<int32_t>()(d.value);
   }
};

template<typename... Args>
struct hash<tuple<Args...>> {
   inline size_t operator()(const tuple<Args...>& t) const {
      return fold<0>(t, size_t(0));
   }

private:
   template<unsigned I>
   static size_t fold(const tuple<Args...>& t, size_t acc) {
      if constexpr (I == sizeof...(Args)) {
         return acc;
      } else {
         using V = typename decay<decltype(get<I>(t))>::type;
         return fold<I + 1>(t, hash<V>()(get<I>(t)) ^ acc);
      }
   }
};
}  // namespace std

struct FileMapping {
   uint64_t file_size = 0;
   int handle = -1;
   char* mapping = nullptr;

   void open(const string& file) {
      handle = ::open(file.c_str(), O_RDONLY);
      if (handle < 0)
         throw runtime_error("could not open " + file + ": " + strerror(errno));
      file_size = lseek(handle, 0, SEEK_END);
      if (file_size == 0)
         return;
      void* m = mmap(nullptr, file_size, PROT_READ, MAP_SHARED, handle, 0);
      if (m == MAP_FAILED)
         throw runtime_error("could not map " + file + ": " + strerror(errno));
      mapping = static_cast<char*>(m);
   }

   ~FileMapping() {
      if (mapping)
         munmap(mapping, file_size);
      if (handle >= 0)
         ::close(handle);
   }
};

template<typename T>
struct DataColumn : FileMapping {
   uint64_t count = 0;

   void open(const string& file) {
      FileMapping::open(file);
      count = file_size / sizeof(T);
   }

   const T& operator[](size_t idx) const {
      return reinterpret_cast<const T*>(mapping)[idx];
   }
};

template<>
struct DataColumn<string_view> : FileMapping {
   struct Slot {
      uint64_t size;
      uint64_t offset;
   };

   uint64_t count = 0;

   void open(const string& file) {
      FileMapping::open(file);
      if (file_size >= 8)
         count = *reinterpret_cast<const uint64_t*>(mapping);
   }

   string_view operator[](size_t idx) const {
      auto slot = reinterpret_cast<const Slot*>(mapping + 8)[idx];
      return string_view(mapping + slot.offset, slot.size);
   }
};
`

func columnType(t types.Type) string {
	switch t {
	case types.Integer:
		return "DataColumn<int32_t>"
	case types.BigInt:
		return "DataColumn<int64_t>"
	case types.Double:
		return "DataColumn<double>"
	case types.Char:
		return "DataColumn<char>"
	case types.Bool:
		return "DataColumn<bool>"
	case types.Date:
		return "DataColumn<date>"
	case types.String:
		return "DataColumn<string_view>"
	default:
		panic(fmt.Sprintf("type %s has no column representation", t))
	}
}

// RuntimeHeader renders the full runtime for a catalog: the fixed
// prelude plus the generated database struct whose accessor surface
// is db.<relation>.tupleCount and db.<relation>.<attribute>[i].
func RuntimeHeader(cat *schema.Catalog) string {
	var b strings.Builder
	b.WriteString(runtimePrelude)
	b.WriteString("\nstruct TPCH {\n")

	for _, name := range cat.Names() {
		rel, err := cat.Relation(name)
		if err != nil {
			panic(err)
		}
		b.WriteString("   struct {\n")
		for _, att := range rel.Attributes {
			fmt.Fprintf(&b, "      %s %s;\n", columnType(att.Type), att.Name)
		}
		b.WriteString("      uint64_t tupleCount{0};\n")
		fmt.Fprintf(&b, "   } %s;\n\n", name)
	}

	b.WriteString("   TPCH(const string& dir) {\n")
	for _, name := range cat.Names() {
		rel, _ := cat.Relation(name)
		for _, att := range rel.Attributes {
			fmt.Fprintf(&b, "      %s.%s.open(dir + \"/%s\");\n",
				name, att.Name, fmt.Sprintf("%s.%s.col", name, att.Name))
		}
		if len(rel.Attributes) > 0 {
			fmt.Fprintf(&b, "      %s.tupleCount = %s.%s.count;\n",
				name, name, rel.Attributes[0].Name)
		}
	}
	b.WriteString("   }\n};\n")
	return b.String()
}

// Program wraps an emitted fragment into a complete translation unit.
func Program(cat *schema.Catalog, fragment string) string {
	var b strings.Builder
	b.WriteString(RuntimeHeader(cat))
	b.WriteString(`
int main(int argc, char** argv) {
   TPCH db(argc >= 2 ? argv[1] : "data");
`)
	b.WriteString(fragment)
	b.WriteString(`   return 0;
}
`)
	return b.String()
}
